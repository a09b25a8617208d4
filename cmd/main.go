/*
Copyright 2025 Piotr Janik.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kingpin/v2"
	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/cogniteo/cognito-user-manager/internal/config"
	"github.com/cogniteo/cognito-user-manager/internal/ops"
	"github.com/cogniteo/cognito-user-manager/internal/tui"
	"github.com/cogniteo/cognito-user-manager/pkg/cognito"
)

var (
	app     = kingpin.New("cognito-user-manager", "Manage the users of an AWS Cognito user pool.")
	verbose = app.Flag("verbose", "Enable debug logging.").Short('v').Bool()

	tuiCmd = app.Command("tui", "Start the interactive terminal interface.").Default()

	createCmd      = app.Command("create-users", "Create users in the pool.")
	createCount    = createCmd.Arg("count", "Number of sequentially numbered test users to create.").Int()
	createEmail    = createCmd.Flag("email", "Email address for a single user. Mutually exclusive with count.").Short('e').String()
	createPassword = createCmd.Flag("password", "Password for the created users. Defaults to the pool's test password.").Short('p').String()

	deleteCmd     = app.Command("delete-users", "Delete every user in the pool, honoring the exclusion list.")
	deleteExclude = deleteCmd.Flag("exclude", "Additional user to protect from deletion. May be repeated.").Strings()
)

func main() {
	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	// The interface owns the terminal, so log records would corrupt the
	// screen; the facade gets a discarded logger there.
	log := logr.Discard()
	if command != tuiCmd.FullCommand() {
		log = newLogger(*verbose)
	}

	cfg, err := config.Load()
	if err != nil {
		app.Fatalf("%v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := cognito.NewClient(ctx, cfg.UserPoolID, cfg.Region)
	if err != nil {
		app.Fatalf("connecting to user pool: %v", err)
	}
	svc := ops.NewService(client, cfg, log)

	switch command {
	case tuiCmd.FullCommand():
		err = tui.Run(ctx, svc, cfg)
	case createCmd.FullCommand():
		err = runCreateUsers(ctx, svc, *createCount, *createEmail, *createPassword)
	case deleteCmd.FullCommand():
		err = runDeleteUsers(ctx, svc, *deleteExclude)
	}
	if err != nil {
		app.Fatalf("%v", err)
	}
}

// newLogger builds the zap-backed logger. Debug records are suppressed
// unless verbose is requested; the interfaces print their own output.
func newLogger(verbose bool) logr.Logger {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	zapLog, err := cfg.Build()
	if err != nil {
		app.Fatalf("building logger: %v", err)
	}
	return zapr.NewLogger(zapLog)
}

func runCreateUsers(ctx context.Context, svc *ops.Service, count int, email, password string) error {
	if email != "" && count > 0 {
		return fmt.Errorf("count and --email are mutually exclusive")
	}

	if email != "" {
		user, err := svc.CreateUser(ctx, email, password, "")
		if err != nil {
			return fmt.Errorf("creating user %s: %w", email, err)
		}
		fmt.Printf("Created user: %s\n", user.Username)
		return nil
	}

	if count <= 0 {
		return fmt.Errorf("count must be a positive number")
	}

	outcomes := svc.CreateTestUsers(ctx, count, password)
	for _, o := range outcomes {
		if o.Failed() {
			fmt.Printf("Failed to create %s: %v\n", o.Username, o.Err)
			continue
		}
		fmt.Printf("Created user: %s\n", o.Username)
	}

	summary := ops.Summarize(outcomes)
	fmt.Printf("Created %d of %d users\n", summary.Succeeded, len(outcomes))
	if summary.Failed > 0 {
		return fmt.Errorf("%d of %d creations failed", summary.Failed, len(outcomes))
	}
	return nil
}

func runDeleteUsers(ctx context.Context, svc *ops.Service, exclude []string) error {
	outcomes, err := svc.DeleteAll(ctx, exclude...)
	if err != nil {
		return fmt.Errorf("deleting users: %w", err)
	}

	for _, o := range outcomes {
		switch o.Action {
		case ops.ActionSkipped:
			fmt.Printf("Skipped excluded user: %s\n", o.Username)
		case ops.ActionFailed:
			fmt.Printf("Failed to delete %s: %v\n", o.Username, o.Err)
		default:
			fmt.Printf("Deleted user: %s\n", o.Username)
		}
	}

	summary := ops.Summarize(outcomes)
	fmt.Printf("Deleted %d users, skipped %d\n", summary.Succeeded, summary.Skipped)
	if summary.Failed > 0 {
		return fmt.Errorf("%d of %d deletions failed", summary.Failed, len(outcomes))
	}
	return nil
}
