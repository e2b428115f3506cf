package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/fsp-platform/timetable-api/internal/catalog"
	"github.com/fsp-platform/timetable-api/internal/dto"
	"github.com/fsp-platform/timetable-api/internal/service"
	"github.com/fsp-platform/timetable-api/pkg/config"
	"github.com/fsp-platform/timetable-api/pkg/storage"
)

func main() {
	inputFile := flag.String("input", "", "input document (JSON)")
	outDir := flag.String("out", "./data/schedules", "directory for the schedule document")
	csvFile := flag.String("csv", "", "also write a flat CSV schedule to this path")
	roomsFile := flag.String("rooms", "", "room catalog CSV (default: built-in catalog)")
	flag.Parse()

	if *inputFile == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if *roomsFile != "" {
		cfg.Rooms.CatalogFile = *roomsFile
	}

	doc, err := run(cfg, *inputFile, *outDir)
	if err != nil {
		log.Fatalf("scheduling failed: %v", err)
	}

	if *csvFile != "" {
		if err := writeCSV(doc, *csvFile); err != nil {
			log.Fatalf("csv export failed: %v", err)
		}
		fmt.Printf("CSV written to %s\n", *csvFile)
	}

	report(doc)
}

func run(cfg *config.Config, inputFile, outDir string) (*dto.TimetableDocument, error) {
	data, err := os.ReadFile(inputFile)
	if err != nil {
		return nil, fmt.Errorf("read input document: %w", err)
	}
	var req dto.GenerateTimetableRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("parse input document: %w", err)
	}

	rooms, err := catalog.LoadRooms(cfg.Rooms.CatalogFile)
	if err != nil {
		return nil, err
	}

	store, err := storage.NewDocumentStore(outDir)
	if err != nil {
		return nil, err
	}

	svc := service.NewTimetableService(store, rooms, cfg.Scheduler, nil, validator.New(), zap.NewNop())
	doc, problems, err := svc.Generate(&req)
	if err != nil {
		return nil, err
	}
	if len(problems) > 0 {
		for _, p := range problems {
			fmt.Fprintf(os.Stderr, "invalid input: %s %s %s\n", p.Field, p.Code, p.Message)
		}
		return nil, fmt.Errorf("input document has %d validation problems", len(problems))
	}
	fmt.Printf("Schedule written to %s\n", store.Path(doc.ID))
	return doc, nil
}

func writeCSV(doc *dto.TimetableDocument, path string) error {
	svc := service.NewExportService(nil, nil, nil, zap.NewNop())
	payload, _, err := svc.Render(doc, service.FormatCSV)
	if err != nil {
		return err
	}
	return os.WriteFile(path, payload, 0o644)
}

func report(doc *dto.TimetableDocument) {
	fmt.Printf("Period: %s %s (%d weeks)\n", doc.Metadata.Period, doc.Metadata.Year, doc.Metadata.Weeks)
	fmt.Printf("Placed sessions: %d\n", len(doc.Sessions))
	if !doc.Partial {
		fmt.Println("All sessions placed")
		return
	}
	fmt.Printf("Unplaced sessions: %d\n", len(doc.Failures))
	for _, f := range doc.Failures {
		fmt.Printf("  %s blocked by %s after %d points\n", f.Session, f.Constraint, f.Attempts)
	}
}
