package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"sort"

	"github.com/joho/godotenv"

	"example.com/fitcoach/internal/api"
	"example.com/fitcoach/internal/config"
	"example.com/fitcoach/internal/controller"
	"example.com/fitcoach/internal/domain"
	"example.com/fitcoach/internal/services"
	"example.com/fitcoach/internal/session"
)

const usage = `Usage: fitcoach <command> [flags]

Commands:
  login       -user <id> -password <pw> [-role student|coach]
  logout
  submit      -weight <kg> -goal <text> [-chest N -waist N -hips N -arms N -legs N]
  my-records
  records     list every record (coach view)
  edit        -id <recordId> [-observations <text>] [-routine <name>]
  routines    list available routines
  routine     -name <routineName>  resolve and show one routine
`

type app struct {
	store    *session.Store
	guard    *session.Guard
	auth     *services.AuthService
	tracking *services.TrackingService
	routines *services.RoutineService
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	store, err := session.Open(cfg.SessionPath)
	if err != nil {
		log.Fatalf("open session store: %v", err)
	}
	defer store.Close()

	client := api.NewClient(cfg.APIBaseURL, cfg.HTTPTimeout, store)
	a := &app{
		store:    store,
		guard:    session.NewGuard(store),
		auth:     services.NewAuthService(client),
		tracking: services.NewTrackingService(client),
		routines: services.NewRoutineService(client),
	}

	ctx := context.Background()
	if err := a.run(ctx, os.Args[1], os.Args[2:]); err != nil {
		if errors.Is(err, session.ErrNotAuthenticated) {
			fmt.Fprintf(os.Stderr, "Not logged in; go to %s (run: fitcoach login)\n", session.LoginPath)
			os.Exit(1)
		}
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func (a *app) run(ctx context.Context, command string, args []string) error {
	switch command {
	case "login":
		return a.login(ctx, args)
	case "logout":
		return a.store.Clear(ctx)
	case "submit":
		return a.submit(ctx, args)
	case "my-records":
		return a.myRecords(ctx)
	case "records":
		return a.records(ctx)
	case "edit":
		return a.edit(ctx, args)
	case "routines":
		return a.listRoutines(ctx)
	case "routine":
		return a.showRoutine(ctx, args)
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", command)
	}
}

func (a *app) login(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	user := fs.String("user", "", "user id")
	password := fs.String("password", "", "password")
	role := fs.String("role", string(domain.RoleStudent), "role: student|coach")
	fs.Parse(args)

	if *user == "" || *password == "" {
		return errors.New("-user and -password are required")
	}

	result, err := a.auth.Login(ctx, *user, *password)
	if err != nil {
		return err
	}
	if !result.Authenticated || result.Token == "" {
		if result.Message != "" {
			return errors.New(result.Message)
		}
		return errors.New("login rejected")
	}

	sess := session.Session{
		LoggedIn: true,
		Token:    result.Token,
		UserID:   result.User.UserID,
		Role:     domain.Role(*role),
	}
	if err := a.store.Save(ctx, sess); err != nil {
		return err
	}
	fmt.Printf("Logged in as %s (%s)\n", sess.UserID, sess.Role)
	return nil
}

func (a *app) submit(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("submit", flag.ExitOnError)
	weight := fs.Float64("weight", 0, "weight in kg")
	goal := fs.String("goal", "", "physical goal")
	chest := fs.Float64("chest", 0, "chest measurement in cm")
	waist := fs.Float64("waist", 0, "waist measurement in cm")
	hips := fs.Float64("hips", 0, "hips measurement in cm")
	arms := fs.Float64("arms", 0, "arms measurement in cm")
	legs := fs.Float64("legs", 0, "legs measurement in cm")
	fs.Parse(args)

	sess, err := a.guard.Require(ctx)
	if err != nil {
		return err
	}

	measurements := make(map[string]float64)
	for key, value := range map[string]float64{
		domain.MeasurementChest: *chest,
		domain.MeasurementWaist: *waist,
		domain.MeasurementHips:  *hips,
		domain.MeasurementArms:  *arms,
		domain.MeasurementLegs:  *legs,
	} {
		if value != 0 {
			measurements[key] = value
		}
	}

	record, err := a.tracking.CreateRecord(ctx, domain.CreateRecordInput{
		UserName:         sess.UserID,
		Weight:           *weight,
		BodyMeasurements: measurements,
		PhysicalGoal:     *goal,
	})
	if err != nil {
		return err
	}
	fmt.Printf("Record %s saved\n", record.ID)
	return nil
}

func (a *app) myRecords(ctx context.Context) error {
	sess, err := a.guard.Require(ctx)
	if err != nil {
		return err
	}
	records, err := a.tracking.ListUserRecords(ctx, sess.UserID)
	if err != nil {
		return err
	}
	printRecords(records)
	return nil
}

func (a *app) records(ctx context.Context) error {
	if _, err := a.guard.Require(ctx); err != nil {
		return err
	}
	ctrl := controller.NewRecordsController(a.tracking, a.routines)
	defer ctrl.Close()
	if err := ctrl.Load(ctx); err != nil {
		return fmt.Errorf("%s (use the back command and retry)", ctrl.LoadError())
	}
	printRecords(ctrl.Records())
	return nil
}

func (a *app) edit(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("edit", flag.ExitOnError)
	id := fs.String("id", "", "record id")
	observations := fs.String("observations", "", "coach observations")
	routine := fs.String("routine", "", "active routine name")
	fs.Parse(args)

	if *id == "" {
		return errors.New("-id is required")
	}
	if _, err := a.guard.Require(ctx); err != nil {
		return err
	}

	ctrl := controller.NewRecordsController(a.tracking, a.routines)
	defer ctrl.Close()
	if err := ctrl.Load(ctx); err != nil {
		return errors.New(ctrl.LoadError())
	}
	if err := ctrl.BeginEdit(*id); err != nil {
		return err
	}
	ctrl.SetObservations(*observations)
	ctrl.SetActiveRoutine(*routine)
	if err := ctrl.CommitEdit(ctx); err != nil {
		if edit := ctrl.EditState(); edit != nil && edit.Err != "" {
			return errors.New(edit.Err)
		}
		return err
	}
	fmt.Println("Record updated")
	return nil
}

func (a *app) listRoutines(ctx context.Context) error {
	if _, err := a.guard.Require(ctx); err != nil {
		return err
	}
	routines, err := a.routines.ListRoutines(ctx)
	if err != nil {
		return err
	}
	for _, routine := range routines {
		fmt.Printf("%s  %s (%s, %s)\n", routine.ID, routine.Name, routine.Duration, routine.Frequency)
	}
	return nil
}

func (a *app) showRoutine(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("routine", flag.ExitOnError)
	name := fs.String("name", "", "routine name")
	fs.Parse(args)

	if *name == "" {
		return errors.New("-name is required")
	}
	if _, err := a.guard.Require(ctx); err != nil {
		return err
	}

	ctrl := controller.NewRecordsController(a.tracking, a.routines)
	defer ctrl.Close()
	routine, err := ctrl.ResolveRoutine(ctx, *name)
	if errors.Is(err, controller.ErrRoutineNotFound) {
		fmt.Printf("No routine named %q was found\n", *name)
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Printf("%s — %s\n%s\nDuration: %s  Frequency: %s\n", routine.Name, routine.Objective, routine.Description, routine.Duration, routine.Frequency)
	for _, exercise := range routine.Exercises {
		fmt.Printf("  %s: %dx%d  %s\n", exercise.Name, exercise.Sets, exercise.Repetitions, exercise.Description)
		if exercise.Instructions != "" {
			fmt.Printf("    %s\n", exercise.Instructions)
		}
	}
	return nil
}

func printRecords(records []domain.PhysicalRecord) {
	if len(records) == 0 {
		fmt.Println("No records found.")
		return
	}
	for _, record := range records {
		fmt.Printf("Record %s — %s (%s)\n", record.ID, record.UserName, record.RegistrationDate.Format("2006-01-02 15:04"))
		fmt.Printf("  Weight: %.1f kg\n", record.Weight)
		keys := make([]string, 0, len(record.BodyMeasurements))
		for key := range record.BodyMeasurements {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			fmt.Printf("  %s: %.1f cm\n", domain.MeasurementLabel(key), record.BodyMeasurements[key])
		}
		fmt.Printf("  Goal: %s\n", record.PhysicalGoal)
		if record.Observations != "" {
			fmt.Printf("  Coach observations: %s\n", record.Observations)
		}
		if record.ActiveRoutine != "" {
			fmt.Printf("  Active routine: %s\n", record.ActiveRoutine)
		}
	}
}
