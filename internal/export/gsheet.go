package export

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-co-op/gocron"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/medcampus/medcampus/internal/academic"
	"github.com/medcampus/medcampus/internal/app"
	"github.com/medcampus/medcampus/internal/store"
)

// GSheetExporter pushes deliberation results for one (filiere, niveau)
// group into a shared spreadsheet on a cron schedule.
type GSheetExporter struct {
	config        *app.Config
	store         store.AcademicStore
	evaluator     *academic.Evaluator
	scheduler     *gocron.Scheduler
	sheetsService *sheets.Service
}

func NewGSheetExporter(config *app.Config, st store.AcademicStore) (*GSheetExporter, error) {
	ctx := context.Background()
	scheduler := gocron.NewScheduler(time.UTC)

	exporter := &GSheetExporter{
		config:    config,
		store:     st,
		evaluator: academic.NewEvaluator(st),
		scheduler: scheduler,
	}

	for groupName, configs := range config.GSheet {
		for _, cfg := range configs {
			svc, err := sheets.NewService(ctx, option.WithCredentialsFile(cfg.CredentialsPath))
			if err != nil {
				return nil, fmt.Errorf("failed to create sheets service: %w", err)
			}
			exporter.sheetsService = svc

			groupName, cfg := groupName, cfg
			_, err = scheduler.Cron(cfg.Schedule).Do(func() {
				if err := exporter.Export(groupName, &cfg); err != nil {
					logger.Error.Printf("Export %s failed: %v", groupName, err)
				}
			})
			if err != nil {
				return nil, fmt.Errorf("failed to schedule export: %w", err)
			}
		}
	}

	scheduler.StartAsync()
	return exporter, nil
}

// startRowOfRange extracts the first row number of an A1 range like "A4:A200".
func startRowOfRange(a1 string) int {
	digits := strings.TrimLeftFunc(strings.Split(a1, ":")[0], func(r rune) bool {
		return r < '0' || r > '9'
	})
	row, err := strconv.Atoi(digits)
	if err != nil {
		return 1
	}
	return row
}

// Export reads the matricule column, recomputes eligibility for each
// student, and writes "moyenne (mention)" next to every matricule.
func (e *GSheetExporter) Export(groupName string, cfg *app.GSheetConfig) error {
	readRange := fmt.Sprintf("%s!%s", cfg.SheetName, cfg.MatriculesRange)
	resp, err := e.sheetsService.Spreadsheets.Values.Get(cfg.SheetID, readRange).Do()
	if err != nil {
		return fmt.Errorf("failed to read matricules: %w", err)
	}

	startRow := startRowOfRange(cfg.MatriculesRange)
	for i, row := range resp.Values {
		if len(row) == 0 {
			continue
		}
		matricule, ok := row[0].(string)
		if !ok || matricule == "" {
			continue
		}

		value := e.resultFor(matricule, cfg)

		updateRange := fmt.Sprintf("%s!%s%d", cfg.SheetName, cfg.ResultsColumn, startRow+i)
		_, err = e.sheetsService.Spreadsheets.Values.Update(cfg.SheetID, updateRange,
			&sheets.ValueRange{Values: [][]interface{}{{value}}}).ValueInputOption("RAW").Do()
		if err != nil {
			return fmt.Errorf("failed to update cell for %s: %w", matricule, err)
		}
	}

	format := e.config.Display.TimestampFormat
	if format == "" {
		format = "2 January 15:04"
	}
	timestamp := fmt.Sprintf("MAJ: %s UTC", time.Now().UTC().Format(format))

	updateRange := fmt.Sprintf("%s!%s", cfg.SheetName, cfg.TimestampRange)
	_, err = e.sheetsService.Spreadsheets.Values.Update(cfg.SheetID, updateRange,
		&sheets.ValueRange{Values: [][]interface{}{{timestamp}}}).ValueInputOption("RAW").Do()

	return err
}

// resultFor never fails the whole export over one student: unknown
// matricules and empty groups come back as visible placeholders.
func (e *GSheetExporter) resultFor(matricule string, cfg *app.GSheetConfig) string {
	student, err := e.store.GetStudentByMatricule(matricule)
	if err != nil {
		logger.Error.Printf("Lookup failed for %s: %v", matricule, err)
		return "erreur"
	}
	if student == nil {
		return "matricule inconnu"
	}

	results, err := e.evaluator.ListEligibility(student.ID)
	if err != nil {
		logger.Error.Printf("Eligibility failed for %s: %v", matricule, err)
		return "erreur"
	}

	for _, r := range results {
		if r.Filiere != cfg.Filiere || r.Niveau != cfg.Niveau {
			continue
		}
		return fmt.Sprintf("%.2f (%s)", r.Moyenne, r.Mention)
	}
	return "aucune note"
}
