package database

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rpupo63/ailabs-portal-backend/models"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) (Database, *gorm.DB) {
	t.Helper()
	db, err := OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return New(db), db
}

func TestProjectSlugAssignment(t *testing.T) {
	d, _ := newTestDB(t)
	repo := d.ProjectRepo()

	first := &models.Project{Title: "Robot Arm", Description: "first"}
	if err := repo.Add(first); err != nil {
		t.Fatalf("Add first: %v", err)
	}
	if first.Slug == nil || *first.Slug != "robot-arm" {
		t.Fatalf("first slug = %v, want robot-arm", first.Slug)
	}

	second := &models.Project{Title: "Robot Arm", Description: "second"}
	if err := repo.Add(second); err != nil {
		t.Fatalf("Add second: %v", err)
	}
	if second.Slug == nil || *second.Slug == *first.Slug {
		t.Fatalf("second slug = %v, want distinct from %s", second.Slug, *first.Slug)
	}
	if !strings.HasPrefix(*second.Slug, "robot-arm-") {
		t.Errorf("second slug = %s, want robot-arm-NNN", *second.Slug)
	}

	untitled := &models.Project{Title: "???", Description: "no slug"}
	if err := repo.Add(untitled); err != nil {
		t.Fatalf("Add untitled: %v", err)
	}
	if untitled.Slug != nil {
		t.Errorf("untitled slug = %s, want nil", *untitled.Slug)
	}
	another := &models.Project{Title: "!!!", Description: "also no slug"}
	if err := repo.Add(another); err != nil {
		t.Fatalf("two NULL slugs must coexist: %v", err)
	}

	found, err := repo.FindBySlug("robot-arm")
	if err != nil || found.ID != first.ID {
		t.Errorf("FindBySlug = %v, %v", found, err)
	}
}

func TestSaveWithSlugRetriesOnConflict(t *testing.T) {
	_, db := newTestDB(t)

	var slugs []string
	calls := 0
	err := saveWithSlug(db, &models.Project{}, uuid.Nil, "Same Title",
		func(s *string) { slugs = append(slugs, *s) },
		func(tx *gorm.DB) error {
			calls++
			if calls < 3 {
				return errors.New("UNIQUE constraint failed: projects.slug")
			}
			return nil
		},
	)
	if err != nil {
		t.Fatalf("saveWithSlug: %v", err)
	}
	if calls != 3 || len(slugs) != 3 {
		t.Errorf("calls = %d, slugs = %v; want 3 attempts", calls, slugs)
	}

	calls = 0
	err = saveWithSlug(db, &models.Project{}, uuid.Nil, "Other",
		func(*string) {},
		func(tx *gorm.DB) error {
			calls++
			return errors.New("disk I/O error")
		},
	)
	if err == nil || calls != 1 {
		t.Errorf("non-unique error: err = %v, calls = %d; want 1 attempt", err, calls)
	}

	calls = 0
	err = saveWithSlug(db, &models.Project{}, uuid.Nil, "Forever",
		func(*string) {},
		func(tx *gorm.DB) error {
			calls++
			return errors.New("UNIQUE constraint failed: projects.slug")
		},
	)
	if err == nil || calls != maxSlugAttempts {
		t.Errorf("exhausted: err = %v, calls = %d; want %d attempts", err, calls, maxSlugAttempts)
	}
}

func TestProjectUpdateSlugRules(t *testing.T) {
	d, _ := newTestDB(t)
	repo := d.ProjectRepo()

	p := &models.Project{Title: "Vision Kit", Description: strings.Repeat("d", 200)}
	if err := repo.Add(p); err != nil {
		t.Fatal(err)
	}
	if p.ShortDescription != strings.Repeat("d", 150)+"..." {
		t.Errorf("short on create = %q", p.ShortDescription)
	}

	p.Description = strings.Repeat("e", 50)
	if err := repo.Update(p, false); err != nil {
		t.Fatal(err)
	}
	stored, _ := repo.FindByID(p.ID)
	if *stored.Slug != "vision-kit" {
		t.Errorf("slug changed without title change: %s", *stored.Slug)
	}
	if stored.ShortDescription != strings.Repeat("e", 50) {
		t.Errorf("short after edit = %q", stored.ShortDescription)
	}

	p.Title = "Vision Kit!"
	if err := repo.Update(p, true); err != nil {
		t.Fatal(err)
	}
	if *p.Slug != "vision-kit" {
		t.Errorf("retitle to same slug should keep it, got %s", *p.Slug)
	}

	p.Title = "Vision Kit Two"
	if err := repo.Update(p, true); err != nil {
		t.Fatal(err)
	}
	if *p.Slug != "vision-kit-two" {
		t.Errorf("slug after retitle = %s", *p.Slug)
	}
}

func TestListColumnsRoundTripAndLegacy(t *testing.T) {
	d, db := newTestDB(t)
	repo := d.ProjectRepo()

	p := &models.Project{
		Title:       "Lists",
		Description: "x",
		TechStack:   models.StringList{"Python", "React"},
		Screenshots: models.StringList{"/static/uploads/projects/screenshots/a,b.png"},
	}
	if err := repo.Add(p); err != nil {
		t.Fatal(err)
	}

	got, _ := repo.FindByID(p.ID)
	if len(got.TechStack) != 2 || got.TechStack[0] != "Python" || got.TechStack[1] != "React" {
		t.Errorf("techStack = %v", got.TechStack)
	}
	if len(got.Screenshots) != 1 {
		t.Errorf("screenshot with comma split: %v", got.Screenshots)
	}

	if err := db.Exec("UPDATE projects SET tech_stack = ? WHERE id = ?", "Python,React", p.ID).Error; err != nil {
		t.Fatal(err)
	}
	got, _ = repo.FindByID(p.ID)
	if len(got.TechStack) != 2 || got.TechStack[1] != "React" {
		t.Errorf("legacy techStack = %v", got.TechStack)
	}
}

func TestDeleteMissingReturnsNotFound(t *testing.T) {
	d, _ := newTestDB(t)

	v := &models.Vacancy{Title: "ML Engineer", Description: "d", Active: true}
	if err := d.VacancyRepo().Add(v); err != nil {
		t.Fatal(err)
	}

	err := d.VacancyRepo().Delete(uuid.New())
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("Delete(missing) = %v, want ErrRecordNotFound", err)
	}
	all, _ := d.VacancyRepo().FindAll()
	if len(all) != 1 {
		t.Errorf("rows after failed delete = %d, want 1", len(all))
	}
}

func TestVacancyActiveFilter(t *testing.T) {
	d, _ := newTestDB(t)
	repo := d.VacancyRepo()

	open := &models.Vacancy{Title: "Open Role", Description: "d", Active: true}
	closed := &models.Vacancy{Title: "Closed Role", Description: "d", Active: false}
	for _, v := range []*models.Vacancy{open, closed} {
		if err := repo.Add(v); err != nil {
			t.Fatal(err)
		}
	}

	active, err := repo.FindActive()
	if err != nil {
		t.Fatal(err)
	}
	if len(active) != 1 || active[0].ID != open.ID {
		t.Errorf("FindActive = %v", active)
	}
	if _, err := repo.FindBySlug("closed-role"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("closed vacancy visible by slug: %v", err)
	}
	if n, _ := repo.CountActive(); n != 1 {
		t.Errorf("CountActive = %d", n)
	}
}

func TestEventCategoryFilterAndOrder(t *testing.T) {
	d, _ := newTestDB(t)
	repo := d.EventRepo()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	events := []*models.Event{
		{Title: "Old Workshop", Category: "workshop", Description: "d", Timestamp: base},
		{Title: "Talk", Category: "talk", Description: "d", Timestamp: base.Add(time.Hour)},
		{Title: "New Workshop", Category: "workshop", Description: "d", Timestamp: base.Add(2 * time.Hour)},
	}
	for _, e := range events {
		if err := repo.Add(e); err != nil {
			t.Fatal(err)
		}
	}

	workshops, err := repo.FindAll("workshop")
	if err != nil {
		t.Fatal(err)
	}
	if len(workshops) != 2 || workshops[0].Title != "New Workshop" {
		t.Errorf("workshops = %v", workshops)
	}

	all, _ := repo.FindAll("")
	if len(all) != 3 {
		t.Errorf("all events = %d", len(all))
	}
}

func TestSubmissionRepo(t *testing.T) {
	d, _ := newTestDB(t)
	repo := d.ContactQueryRepo()

	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	older := &models.ContactQuery{Name: "A", Email: "a@b.com", Message: "hi", Timestamp: base}
	newer := &models.ContactQuery{Name: "B", Email: "b@b.com", Message: "yo", Timestamp: base.Add(time.Minute)}
	for _, q := range []*models.ContactQuery{older, newer} {
		if err := repo.Add(q); err != nil {
			t.Fatal(err)
		}
	}

	all, _ := repo.FindAll()
	if len(all) != 2 || all[0].Name != "B" {
		t.Errorf("FindAll order = %v", all)
	}

	if err := repo.Delete(older.ID); err != nil {
		t.Fatal(err)
	}
	if n, _ := repo.Count(); n != 1 {
		t.Errorf("Count = %d, want 1", n)
	}
}

func TestTransactionRollsBack(t *testing.T) {
	d, _ := newTestDB(t)

	err := d.Transaction(context.Background(), func(tx Database) error {
		if err := tx.PartnershipRequestRepo().Add(&models.PartnershipRequest{CollegeName: "C", Email: "c@d.com", Phone: "1"}); err != nil {
			return err
		}
		return errors.New("abort")
	})
	if err == nil {
		t.Fatal("expected error")
	}

	if n, _ := d.PartnershipRequestRepo().Count(); n != 0 {
		t.Errorf("count after rollback = %d, want 0", n)
	}
}

type legacyVacancy struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Title        string    `gorm:"size:200;not null"`
	Location     string    `gorm:"size:100"`
	Type         string    `gorm:"size:50"`
	Description  string    `gorm:"type:text;not null"`
	Requirements string    `gorm:"type:text"`
	Active       bool      `gorm:"not null;index"`
	Timestamp    time.Time `gorm:"not null;index"`
	LegacyNote   string
}

func (legacyVacancy) TableName() string { return "vacancies" }

func TestMigrateAddsSlugToLegacyTable(t *testing.T) {
	db, err := OpenSQLite(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	if err := db.AutoMigrate(&legacyVacancy{}); err != nil {
		t.Fatal(err)
	}
	legacy := legacyVacancy{
		ID: uuid.New(), Title: "Data Analyst", Description: "d",
		Requirements: "SQL,Python", Active: true, Timestamp: time.Now().UTC(),
	}
	if err := db.Create(&legacy).Error; err != nil {
		t.Fatal(err)
	}

	if err := Migrate(db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	if !db.Migrator().HasColumn(&models.Vacancy{}, "slug") {
		t.Fatal("slug column not added")
	}

	report, err := ColumnMismatchReport(db)
	if err != nil {
		t.Fatal(err)
	}
	if cols := report["vacancies"]; len(cols) != 1 || cols[0] != "legacy_note" {
		t.Errorf("mismatch report = %v", report)
	}

	repo := NewVacancyRepo(db)
	v, err := repo.FindByID(legacy.ID)
	if err != nil {
		t.Fatal(err)
	}
	if v.Slug != nil {
		t.Errorf("legacy slug = %s, want nil", *v.Slug)
	}
	if len(v.Requirements) != 2 || v.Requirements[0] != "SQL" {
		t.Errorf("legacy requirements = %v", v.Requirements)
	}

	if err := repo.Update(v, false); err != nil {
		t.Fatal(err)
	}
	if v.Slug == nil || *v.Slug != "data-analyst" {
		t.Errorf("slug after first edit = %v", v.Slug)
	}
}
