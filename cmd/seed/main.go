package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/cmlabs-hris/hr201-backend-go/internal/config"
	"github.com/cmlabs-hris/hr201-backend-go/internal/db"
	"github.com/cmlabs-hris/hr201-backend-go/internal/pkg/database"
	"golang.org/x/crypto/bcrypt"
)

// Seeds a development database: an admin user, a demo employee, the basic
// leave types, a regular-employee vacation policy with a two-level
// approval chain, and a current-year allocation.
func main() {
	var adminPassword string
	flag.StringVar(&adminPassword, "admin-password", "", "password for the seeded admin user (required)")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	if adminPassword == "" {
		logger.Error("missing -admin-password flag")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	pool, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := db.Migrate(ctx, pool); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		logger.Error("failed to hash admin password", "error", err)
		os.Exit(1)
	}

	_, err = pool.Exec(ctx, `
		INSERT INTO users (username, password_hash, is_admin)
		VALUES ('admin', $1, true)
		ON CONFLICT (username) DO NOTHING
	`, string(hash))
	if err != nil {
		logger.Error("failed to seed admin user", "error", err)
		os.Exit(1)
	}

	var employeeID int64
	err = pool.QueryRow(ctx, `
		INSERT INTO employees (employee_type, full_name)
		VALUES ('regular', 'Juan Dela Cruz')
		RETURNING id
	`).Scan(&employeeID)
	if err != nil {
		logger.Error("failed to seed employee", "error", err)
		os.Exit(1)
	}

	leaveTypes := []struct {
		name             string
		code             string
		category         string
		requiresApproval bool
	}{
		{"Vacation Leave", "VL", "vacation", true},
		{"Sick Leave", "SL", "sick", true},
		{"Emergency Leave", "EL", "emergency", false},
	}

	var vacationTypeID int64
	for _, lt := range leaveTypes {
		var id int64
		err := pool.QueryRow(ctx, `
			INSERT INTO leave_types (name, code, category, requires_approval, created_by, updated_by)
			VALUES ($1, $2, $3, $4, 'seed', 'seed')
			RETURNING id
		`, lt.name, lt.code, lt.category, lt.requiresApproval).Scan(&id)
		if err != nil {
			logger.Error("failed to seed leave type", "code", lt.code, "error", err)
			os.Exit(1)
		}
		if lt.code == "VL" {
			vacationTypeID = id
		}
	}

	_, err = pool.Exec(ctx, `
		INSERT INTO leave_policies (
			employee_type, leave_type_id, annual_allocation, max_carry_over,
			max_days_per_request, approval_workflow, is_active, effective_date,
			created_by, updated_by
		) VALUES (
			'regular', $1, 15, 5,
			10,
			'[{"level":1,"approver_type":"supervisor","approver_id":1,"is_required":true,"can_delegate":false},
			  {"level":2,"approver_type":"hr","approver_id":2,"is_required":true,"can_delegate":true,"max_delegation_levels":1}]',
			true, $2,
			'seed', 'seed'
		)
	`, vacationTypeID, time.Date(time.Now().Year(), 1, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		logger.Error("failed to seed leave policy", "error", err)
		os.Exit(1)
	}

	year := time.Now().Year()
	_, err = pool.Exec(ctx, `
		INSERT INTO leave_allocations (
			employee_id, leave_type_id, cutoff_year, allocated_days,
			period_status, cutoff_start_date, cutoff_end_date
		) VALUES ($1, $2, $3, 15, 'active', $4, $5)
	`, employeeID, vacationTypeID, year,
		time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(year, 12, 31, 0, 0, 0, 0, time.UTC))
	if err != nil {
		logger.Error("failed to seed leave allocation", "error", err)
		os.Exit(1)
	}

	logger.Info("seed complete", "employee_id", employeeID, "vacation_type_id", vacationTypeID)
}
