// Package export renders payer rosters as xlsx workbooks for download by
// payer staff. Exports are built synchronously from the live tables; they
// reflect the state at the moment of the request.
package export

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/vbtech/vbadmin/internal/domain"
	"github.com/vbtech/vbadmin/internal/repository"
)

const (
	planSheet      = "Health Plans"
	physicianSheet = "Physicians"
	entitySheet    = "Network Entities"
)

// Service builds roster workbooks from the data layer.
type Service struct {
	plans      repository.HealthPlanRepository
	physicians repository.NetworkPhysicianRepository
	entities   repository.NetworkEntityRepository

	now func() time.Time
}

// Option customizes a Service.
type Option func(*Service)

// WithClock overrides the timestamp source used in generated file names.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService wires the roster export service.
func NewService(
	plans repository.HealthPlanRepository,
	physicians repository.NetworkPhysicianRepository,
	entities repository.NetworkEntityRepository,
	opts ...Option,
) *Service {
	service := &Service{
		plans:      plans,
		physicians: physicians,
		entities:   entities,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// FileName returns the download file name for a payer's roster export.
func (s *Service) FileName(payerPubID string) string {
	return fmt.Sprintf("roster-%s-%s.xlsx", payerPubID, s.now().UTC().Format("20060102"))
}

// BuildRoster assembles the payer's roster workbook: one sheet of health
// plans (a row per PBP), one of physicians (a row per affiliation), and one
// of network entities. Inactive parent rows are skipped.
func (s *Service) BuildRoster(ctx context.Context, payerPubID string) (*excelize.File, error) {
	plans, err := s.plans.ListByPayer(ctx, payerPubID)
	if err != nil {
		return nil, fmt.Errorf("list health plans: %w", err)
	}
	physicians, err := s.physicians.ListByPayer(ctx, payerPubID)
	if err != nil {
		return nil, fmt.Errorf("list physicians: %w", err)
	}
	entities, err := s.entities.ListByPayer(ctx, payerPubID)
	if err != nil {
		return nil, fmt.Errorf("list network entities: %w", err)
	}

	// Entity names keyed by pub id, for affiliation rows.
	entityNames := make(map[string]string, len(entities))
	for _, entity := range entities {
		entityNames[entity.PubID] = entity.MarketingName
	}

	file := excelize.NewFile()
	if err := writePlanSheet(file, plans); err != nil {
		return nil, err
	}
	if err := writePhysicianSheet(file, physicians, entityNames); err != nil {
		return nil, err
	}
	if err := writeEntitySheet(file, entities); err != nil {
		return nil, err
	}
	// Drop the default sheet excelize creates.
	if err := file.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("remove default sheet: %w", err)
	}
	return file, nil
}

func writePlanSheet(file *excelize.File, plans []domain.HealthPlan) error {
	if _, err := file.NewSheet(planSheet); err != nil {
		return fmt.Errorf("create sheet %s: %w", planSheet, err)
	}
	header := []any{"Plan Name", "CMS Plan ID", "Plan Type", "PBP ID", "PBP Name", "PBP Active"}
	if err := file.SetSheetRow(planSheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	row := 2
	for _, plan := range plans {
		if !plan.IsActive {
			continue
		}
		if len(plan.PBPs) == 0 {
			cells := []any{plan.PlanName, plan.CMSPlanID, strings.ToUpper(plan.PlanType), "", "", ""}
			if err := setRow(file, planSheet, row, cells); err != nil {
				return err
			}
			row++
			continue
		}
		for _, pbp := range plan.PBPs {
			cells := []any{plan.PlanName, plan.CMSPlanID, strings.ToUpper(plan.PlanType), pbp.PBPID, pbp.PBPName, pbp.IsActive}
			if err := setRow(file, planSheet, row, cells); err != nil {
				return err
			}
			row++
		}
	}
	return nil
}

func writePhysicianSheet(file *excelize.File, physicians []domain.NetworkPhysician, entityNames map[string]string) error {
	if _, err := file.NewSheet(physicianSheet); err != nil {
		return fmt.Errorf("create sheet %s: %w", physicianSheet, err)
	}
	header := []any{"Last Name", "First Name", "NPI", "Credential", "Specialty", "Class", "Affiliated Entity", "Position", "Primary"}
	if err := file.SetSheetRow(physicianSheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	row := 2
	for _, physician := range physicians {
		if !physician.IsActive {
			continue
		}
		base := []any{physician.LastName, physician.FirstName, physician.NPI, physician.Credential, physician.Specialty, physician.Class}
		if len(physician.Affiliations) == 0 {
			if err := setRow(file, physicianSheet, row, append(base, "", "", "")); err != nil {
				return err
			}
			row++
			continue
		}
		for _, affiliation := range physician.Affiliations {
			if !affiliation.IsActive {
				continue
			}
			name := entityNames[affiliation.NetworkEntityPubID]
			cells := append(append([]any{}, base...), name, affiliation.Position, affiliation.IsPrimary)
			if err := setRow(file, physicianSheet, row, cells); err != nil {
				return err
			}
			row++
		}
	}
	return nil
}

func writeEntitySheet(file *excelize.File, entities []domain.NetworkEntity) error {
	if _, err := file.NewSheet(entitySheet); err != nil {
		return fmt.Errorf("create sheet %s: %w", entitySheet, err)
	}
	header := []any{"Marketing Name", "Legal Business Name", "Type", "Org NPI", "Tax ID"}
	if err := file.SetSheetRow(entitySheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	row := 2
	for _, entity := range entities {
		if !entity.IsActive {
			continue
		}
		cells := []any{entity.MarketingName, entity.LegalBusinessName, string(entity.NetEntType), entity.OrgNPI, entity.TaxID}
		if err := setRow(file, entitySheet, row, cells); err != nil {
			return err
		}
		row++
	}
	return nil
}

func setRow(file *excelize.File, sheet string, row int, cells []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("resolve cell for row %d: %w", row, err)
	}
	if err := file.SetSheetRow(sheet, cell, &cells); err != nil {
		return fmt.Errorf("write row %d on %s: %w", row, sheet, err)
	}
	return nil
}
