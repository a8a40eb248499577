package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/cmlabs-hris/hr201-backend-go/internal/config"
	"github.com/cmlabs-hris/hr201-backend-go/internal/db"
	appHTTP "github.com/cmlabs-hris/hr201-backend-go/internal/handler/http"
	"github.com/cmlabs-hris/hr201-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/hr201-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hr201-backend-go/internal/repository/postgresql"
	authService "github.com/cmlabs-hris/hr201-backend-go/internal/service/auth"
	leaveService "github.com/cmlabs-hris/hr201-backend-go/internal/service/leave"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Error loading config: ", err)
	}

	pool, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		log.Fatal("Error connecting to database: ", err)
	}

	if err := db.Migrate(context.Background(), pool); err != nil {
		log.Fatal("Error running migrations: ", err)
	}

	transactor := postgresql.NewTransactor(pool)
	employeeRepo := postgresql.NewEmployeeRepository()
	leaveTypeRepo := postgresql.NewLeaveTypeRepository()
	leavePolicyRepo := postgresql.NewLeavePolicyRepository()
	leaveAllocationRepo := postgresql.NewLeaveAllocationRepository()
	leaveRepo := postgresql.NewLeaveRepository()
	leaveApprovalRepo := postgresql.NewLeaveApprovalRepository()
	activityLogRepo := postgresql.NewActivityLogRepository()
	userRepo := postgresql.NewUserRepository()

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	loginService := authService.NewService(pool, userRepo, jwtService)

	requestService := leaveService.NewRequestService(
		pool,
		transactor,
		employeeRepo,
		leaveTypeRepo,
		leavePolicyRepo,
		leaveAllocationRepo,
		leaveRepo,
		leaveApprovalRepo,
		activityLogRepo,
	)

	authHandler := appHTTP.NewAuthHandler(loginService)
	leaveHandler := appHTTP.NewLeaveHandler(requestService)
	router := appHTTP.NewRouter(cfg.App.Env, jwtService, authHandler, leaveHandler)

	addr := fmt.Sprintf(":%d", cfg.App.Port)
	log.Println("Listening on", addr)
	if err := http.ListenAndServe(addr, router); err != nil {
		log.Fatal("Server error: ", err)
	}
}
