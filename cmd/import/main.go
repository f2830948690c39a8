package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/dinperin/simikm-backend/config"
	"github.com/dinperin/simikm-backend/internal/app/repository"
	"github.com/dinperin/simikm-backend/internal/app/service"
	"github.com/dinperin/simikm-backend/internal/db"
	"github.com/dinperin/simikm-backend/internal/notify"
	"github.com/dinperin/simikm-backend/pkg/logger"
)

// Bulk-loads a registry spreadsheet from the command line, for the initial
// migration of the dinas' legacy workbook and for batches too big to push
// through the browser.
func main() {
	filePath := flag.String("file", "", "path to the xlsx file (required)")
	checkNIK := flag.Bool("check-nik", false, "also treat NIK collisions as duplicates")
	yes := flag.Bool("yes", false, "commit without the confirmation prompt")
	flag.Parse()

	if *filePath == "" {
		fmt.Fprintln(os.Stderr, "usage: import -file data.xlsx [-check-nik] [-yes]")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	logger.Initialize(logger.Config{
		Level:  "warn", // keep the terminal output readable
		Format: "console",
	})

	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	businessRepo := repository.NewBusinessRepository(db.GetDB())
	auditRepo := repository.NewAuditRepository(db.GetDB())
	importService := service.NewImportService(
		businessRepo,
		service.NewAuditService(auditRepo),
		notify.NewNoop(),
		cfg.Import.BatchSize,
	)

	f, err := os.Open(*filePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot open %s: %v\n", *filePath, err)
		os.Exit(1)
	}
	defer f.Close()

	rows, err := importService.ParseSheet(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot parse %s: %v\n", *filePath, err)
		os.Exit(1)
	}

	plan, err := importService.Reconcile(rows, service.ImportOptions{CheckNIK: *checkNIK})
	if err != nil {
		fmt.Fprintf(os.Stderr, "reconcile failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("File      : %s\n", *filePath)
	fmt.Printf("Rows      : %d\n", len(rows))
	fmt.Printf("To insert : %d\n", len(plan.ToInsert))
	fmt.Printf("Duplicates: %d\n", len(plan.Duplicates))
	for _, dup := range plan.Duplicates {
		fmt.Printf("  skip NIB %s (%s)\n", dup.NIB, dup.OwnerName)
	}

	if len(plan.ToInsert) == 0 {
		fmt.Println("Nothing to import.")
		return
	}

	if !*yes {
		fmt.Printf("Insert %d rows? [y/N] ", len(plan.ToInsert))
		reader := bufio.NewReader(os.Stdin)
		answer, _ := reader.ReadString('\n')
		if strings.TrimSpace(strings.ToLower(answer)) != "y" {
			fmt.Println("Aborted.")
			return
		}
	}

	actor := service.Actor{Name: "CLI Import", Role: "admin"}
	count, err := importService.Commit(plan.ToInsert, actor)
	if err != nil {
		fmt.Fprintf(os.Stderr, "commit failed, no rows were written: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Imported %d rows.\n", count)
}
