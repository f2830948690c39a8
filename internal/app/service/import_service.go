package service

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dinperin/simikm-backend/internal/app/model"
	"github.com/dinperin/simikm-backend/internal/app/repository"
	"github.com/dinperin/simikm-backend/internal/notify"
	"github.com/dinperin/simikm-backend/pkg/logger"
	"github.com/dinperin/simikm-backend/pkg/util"
	"github.com/xuri/excelize/v2"
)

var (
	ErrEmptySheet    = errors.New("sheet contains no data rows")
	ErrMissingHeader = errors.New("sheet is missing the no_nib column")
)

// ImportRow is one spreadsheet row in canonical form. The json tags mirror
// the upload header contract so a reconciled plan round-trips through the
// admin UI's confirmation step unchanged.
type ImportRow struct {
	NIB          string `json:"no_nib"`
	NIK          string `json:"nik"`
	OwnerName    string `json:"nama_lengkap"`
	BusinessName string `json:"nama_usaha"`
	Address      string `json:"alamat"`
	Phone        string `json:"no_hp"`
}

// ImportPlan is the outcome of reconciliation, presented to the operator
// before anything is written.
type ImportPlan struct {
	ToInsert   []ImportRow `json:"to_insert"`
	Duplicates []ImportRow `json:"duplicates"`
}

// ImportOptions controls which identifier fields are checked against the
// active set. NIB is always checked; NIK is optional because historical
// spreadsheet batches often carry blank NIK columns.
type ImportOptions struct {
	CheckNIK bool
}

type ImportService interface {
	// ParseSheet reads the first worksheet of an xlsx upload. Headers are
	// matched by name, order-independent; unrecognized columns are ignored
	// and missing ones default to empty strings.
	ParseSheet(r io.Reader) ([]ImportRow, error)
	// Reconcile partitions rows into new and duplicate against one bulk
	// read of the active identifier set. Nothing is written.
	Reconcile(rows []ImportRow, opts ImportOptions) (*ImportPlan, error)
	// Commit inserts the confirmed rows as a single all-or-nothing batch
	// and records exactly one audit entry with the batch size. A failed
	// batch writes no rows and no audit entry.
	Commit(rows []ImportRow, actor Actor) (int, error)
}

type importService struct {
	businessRepo repository.BusinessRepository
	audit        AuditService
	notifier     notify.Notifier
	batchSize    int
}

func NewImportService(
	businessRepo repository.BusinessRepository,
	audit AuditService,
	notifier notify.Notifier,
	batchSize int,
) ImportService {
	if batchSize <= 0 {
		batchSize = 500
	}
	return &importService{
		businessRepo: businessRepo,
		audit:        audit,
		notifier:     notifier,
		batchSize:    batchSize,
	}
}

// Recognized upload headers, per the registry's spreadsheet template.
const (
	headerNIB          = "no_nib"
	headerNIK          = "nik"
	headerOwnerName    = "nama_lengkap"
	headerBusinessName = "nama_usaha"
	headerAddress      = "alamat"
	headerPhone        = "no_hp"
)

func (s *importService) ParseSheet(r io.Reader) ([]ImportRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open xlsx: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, ErrEmptySheet
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) < 2 {
		return nil, ErrEmptySheet
	}

	columns := mapHeaders(rows[0])
	if _, ok := columns[headerNIB]; !ok {
		return nil, ErrMissingHeader
	}

	imported := make([]ImportRow, 0, len(rows)-1)
	for _, row := range rows[1:] {
		imported = append(imported, ImportRow{
			NIB:          cellAt(row, columns, headerNIB),
			NIK:          cellAt(row, columns, headerNIK),
			OwnerName:    cellAt(row, columns, headerOwnerName),
			BusinessName: cellAt(row, columns, headerBusinessName),
			Address:      cellAt(row, columns, headerAddress),
			Phone:        cellAt(row, columns, headerPhone),
		})
	}

	logger.Info("Parsed import sheet", map[string]interface{}{
		"sheet": sheetName,
		"rows":  len(imported),
	})
	return imported, nil
}

// mapHeaders resolves each recognized header to its column index, whatever
// order the sheet uses. Extra columns fall through unmapped.
func mapHeaders(header []string) map[string]int {
	columns := make(map[string]int)
	for i, name := range header {
		key := strings.ToLower(strings.TrimSpace(name))
		switch key {
		case headerNIB, headerNIK, headerOwnerName, headerBusinessName, headerAddress, headerPhone:
			columns[key] = i
		}
	}
	return columns
}

func cellAt(row []string, columns map[string]int, header string) string {
	idx, ok := columns[header]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func (s *importService) Reconcile(rows []ImportRow, opts ImportOptions) (*ImportPlan, error) {
	activeNIBs, err := s.businessRepo.ActiveNIBSet()
	if err != nil {
		return nil, err
	}

	var activeNIKs map[string]struct{}
	if opts.CheckNIK {
		activeNIKs, err = s.businessRepo.ActiveNIKSet()
		if err != nil {
			return nil, err
		}
	}

	plan := &ImportPlan{
		ToInsert:   []ImportRow{},
		Duplicates: []ImportRow{},
	}

	for _, row := range rows {
		normalized := row
		normalized.NIB = util.DigitsOnly(row.NIB)

		if _, taken := activeNIBs[normalized.NIB]; taken {
			plan.Duplicates = append(plan.Duplicates, normalized)
			continue
		}
		if opts.CheckNIK {
			if _, taken := activeNIKs[normalized.NIK]; taken {
				plan.Duplicates = append(plan.Duplicates, normalized)
				continue
			}
		}
		plan.ToInsert = append(plan.ToInsert, normalized)
	}

	logger.Info("Import batch reconciled", map[string]interface{}{
		"total":      len(rows),
		"to_insert":  len(plan.ToInsert),
		"duplicates": len(plan.Duplicates),
		"check_nik":  opts.CheckNIK,
	})
	return plan, nil
}

func (s *importService) Commit(rows []ImportRow, actor Actor) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	businesses := make([]model.Business, 0, len(rows))
	for _, row := range rows {
		businesses = append(businesses, model.Business{
			NIB:          util.DigitsOnly(row.NIB),
			NIK:          row.NIK,
			OwnerName:    row.OwnerName,
			BusinessName: row.BusinessName,
			Address:      row.Address,
			Phone:        row.Phone,
		})
	}

	if err := s.businessRepo.CreateInBatches(businesses, s.batchSize); err != nil {
		logger.Error("Import commit failed", err, map[string]interface{}{
			"rows": len(businesses),
		})
		return 0, err
	}

	s.audit.Record(actor, model.AuditCreate,
		fmt.Sprintf("Impor data IKM dari berkas: %d baris", len(businesses)))
	s.notifier.Changed(businessTable, "import")

	logger.Info("Import batch committed", map[string]interface{}{
		"rows": len(businesses),
	})
	return len(businesses), nil
}
