package main

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/medcampus/medcampus/internal/app"
	"github.com/medcampus/medcampus/internal/handlers"
)

func main() {
	service, err := app.NewService("config.toml")
	if err != nil {
		logger.Error.Fatalf("Failed to load config: %v", err)
	}
	defer service.Close()

	if err := service.Store.ApplyMigrations(service.Config.Database.MigrationsDir); err != nil {
		logger.Error.Fatalf("Failed to apply migrations: %v", err)
	}

	registryHandler := handlers.NewRegistryHandler(service)
	gradeHandler := handlers.NewGradeHandler(service)
	certificateHandler := handlers.NewCertificateHandler(service)

	http.HandleFunc("POST /api/v1/etudiants", registryHandler.HandleCreateStudent)
	http.HandleFunc("GET /api/v1/etudiants/{id}", registryHandler.HandleGetStudent)
	http.HandleFunc("POST /api/v1/enseignants", registryHandler.HandleCreateTeacher)
	http.HandleFunc("POST /api/v1/cours", registryHandler.HandleCreateCourse)

	http.HandleFunc("POST /api/v1/notes", gradeHandler.HandleRecordGrade)
	http.HandleFunc("PATCH /api/v1/notes/{id}", gradeHandler.HandleUpdateGrade)
	http.HandleFunc("DELETE /api/v1/notes/{id}", gradeHandler.HandleDeleteGrade)
	http.HandleFunc("GET /api/v1/etudiants/{id}/notes", gradeHandler.HandleListStudentGrades)

	http.HandleFunc("GET /api/v1/etudiants/{id}/eligibilite", certificateHandler.HandleEligibility)
	http.HandleFunc("POST /api/v1/certificats", certificateHandler.HandleIssueCertificate)
	http.HandleFunc("GET /api/v1/etudiants/{id}/certificats", certificateHandler.HandleListStudentCertificates)
	http.HandleFunc("GET /api/v1/certificats", certificateHandler.HandleListCertificates)
	http.HandleFunc("GET /api/v1/certificats/{id}", certificateHandler.HandleGetCertificate)
	http.HandleFunc("POST /api/v1/certificats/{id}/signer", certificateHandler.HandleSignCertificate)
	http.HandleFunc("GET /api/v1/certificats/verifier/{code}", certificateHandler.HandleVerifyCertificate)

	http.Handle("/metrics", promhttp.Handler())

	logger.Info.Printf("Starting medcampus server on %s", service.Config.Server.Port)
	logger.Debug.Println("Requiring headers:")
	for _, h := range service.Config.API.RequiredHeaders {
		logger.Debug.Printf("  %s: %s", h.Name, h.Value)
	}
	if err := http.ListenAndServe(service.Config.Server.Port, nil); err != nil {
		logger.Error.Fatalf("Medcampus server failed: %v", err)
	}
}
