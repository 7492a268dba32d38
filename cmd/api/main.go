package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/attendly/attendance-backend-go/internal/config"
	"github.com/attendly/attendance-backend-go/internal/domain/office"
	appHTTP "github.com/attendly/attendance-backend-go/internal/handler/http"
	"github.com/attendly/attendance-backend-go/internal/pkg/cron"
	"github.com/attendly/attendance-backend-go/internal/pkg/database"
	"github.com/attendly/attendance-backend-go/internal/pkg/jwt"
	"github.com/attendly/attendance-backend-go/internal/pkg/storage"
	"github.com/attendly/attendance-backend-go/internal/repository/postgresql"
	attendanceService "github.com/attendly/attendance-backend-go/internal/service/attendance"
	authService "github.com/attendly/attendance-backend-go/internal/service/auth"
	"github.com/attendly/attendance-backend-go/internal/service/file"
	leaveService "github.com/attendly/attendance-backend-go/internal/service/leave"
	officeService "github.com/attendly/attendance-backend-go/internal/service/office"
	userService "github.com/attendly/attendance-backend-go/internal/service/user"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL(), int32(cfg.Database.MaxConns), int32(cfg.Database.MinConns))
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}
	defer db.Close()

	userRepo := postgresql.NewUserRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	leaveRepo := postgresql.NewLeaveRepository(db)
	officeRepo := postgresql.NewOfficeLocationRepository(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration)

	fileStorage, err := storage.NewLocalStorage(cfg.Storage.BasePath, cfg.Storage.BaseURL)
	if err != nil {
		log.Fatal("Failed to initialize local storage:", err)
	}
	fileSvc := file.NewFileService(fileStorage)

	officeRegistry := officeService.NewRegistry(db, officeRepo)
	attendanceSvc, err := attendanceService.NewAttendanceService(
		attendanceRepo,
		userRepo,
		leaveRepo,
		officeRegistry,
		fileSvc,
		cfg.WorkingHours.StartTime,
		cfg.WorkingHours.EndTime,
	)
	if err != nil {
		log.Fatal("Failed to initialize attendance service:", err)
	}
	leaveSvc := leaveService.NewLeaveService(leaveRepo, userRepo)
	authSvc := authService.NewAuthService(userRepo, jwtService, fileSvc)
	userSvc := userService.NewUserService(userRepo, fileSvc)

	// Configuration is the source of truth for the office geofence
	loc, err := officeRegistry.Reconcile(context.Background(), office.ReconcileConfig{
		Name:         cfg.Office.Name,
		Latitude:     cfg.Office.Latitude,
		Longitude:    cfg.Office.Longitude,
		RadiusMeters: cfg.Office.RadiusMeters,
	})
	if err != nil {
		log.Fatal("Failed to reconcile office location:", err)
	}
	slog.Info("Office geofence active",
		"name", loc.Name,
		"latitude", loc.Latitude,
		"longitude", loc.Longitude,
		"radius_meters", loc.AllowedRadiusInMeters)

	scheduler := cron.NewScheduler()
	cron.NewAttendanceJobs(attendanceSvc).RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	authHandler := appHTTP.NewAuthHandler(authSvc, jwtService)
	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc)
	leaveHandler := appHTTP.NewLeaveHandler(leaveSvc)
	profileHandler := appHTTP.NewProfileHandler(userSvc)
	adminHandler := appHTTP.NewAdminHandler(userSvc, attendanceSvc, officeRegistry)

	router := appHTTP.NewRouter(
		appHTTP.RouterConfig{
			Env:            cfg.App.Env,
			UploadsDir:     cfg.Storage.BasePath,
			AllowedOrigins: strings.Split(cfg.App.AllowedOrigins, ","),
		},
		jwtService,
		authHandler,
		attendanceHandler,
		leaveHandler,
		profileHandler,
		adminHandler,
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	server := &http.Server{Addr: port, Handler: router}

	go func() {
		fmt.Printf("Server running at http://localhost%s\n", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fmt.Println("Server error:", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	slog.Info("Shutting down...")
	if err := server.Shutdown(context.Background()); err != nil {
		slog.Error("Server shutdown failed", "error", err)
	}
}
