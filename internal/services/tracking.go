package services

import (
	"context"
	"net/url"

	"example.com/fitcoach/internal/api"
	"example.com/fitcoach/internal/domain"
)

// TrackingService maps the tracking-service record endpoints.
type TrackingService struct {
	client *api.Client
}

// NewTrackingService constructs a TrackingService.
func NewTrackingService(client *api.Client) *TrackingService {
	return &TrackingService{client: client}
}

// CreateRecord submits a new physical record. Input is validated locally
// before the call; a ValidationError never reaches the network.
func (s *TrackingService) CreateRecord(ctx context.Context, input domain.CreateRecordInput) (domain.PhysicalRecord, error) {
	if err := input.Validate(); err != nil {
		return domain.PhysicalRecord{}, err
	}
	var record domain.PhysicalRecord
	err := s.client.Post(ctx, "/tracking-service/records", input, &record)
	return record, err
}

// ListRecords fetches every record (coach view).
func (s *TrackingService) ListRecords(ctx context.Context) ([]domain.PhysicalRecord, error) {
	var records []domain.PhysicalRecord
	err := s.client.Get(ctx, "/tracking-service/records", &records)
	return records, err
}

// ListUserRecords fetches the records belonging to one user.
func (s *TrackingService) ListUserRecords(ctx context.Context, userName string) ([]domain.PhysicalRecord, error) {
	var records []domain.PhysicalRecord
	err := s.client.Get(ctx, "/tracking-service/records/user/"+url.PathEscape(userName), &records)
	return records, err
}

// UpdateRecord applies the coach-owned partial update to one record.
func (s *TrackingService) UpdateRecord(ctx context.Context, id string, update domain.RecordUpdate) error {
	return s.client.Put(ctx, "/tracking-service/records/"+url.PathEscape(id), update, nil)
}
