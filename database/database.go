package database

import (
	"context"

	"gorm.io/gorm"
)

// Database groups the repositories over one gorm handle. A Database built
// inside Transaction is bound to that transaction, so every repository it
// hands out writes through the same unit of work.
type Database struct {
	db                     *gorm.DB
	userRepo               *UserRepo
	sessionRepo            *SessionRepo
	contactQueryRepo       *ContactQueryRepo
	partnershipRequestRepo *PartnershipRequestRepo
	jobApplicationRepo     *JobApplicationRepo
	projectRepo            *ProjectRepo
	eventRepo              *EventRepo
	vacancyRepo            *VacancyRepo
}

// New initializes a new Database struct with each repository using a shared GORM database instance
func New(db *gorm.DB) Database {
	return Database{
		db:                     db,
		userRepo:               NewUserRepo(db),
		sessionRepo:            NewSessionRepo(db),
		contactQueryRepo:       NewContactQueryRepo(db),
		partnershipRequestRepo: NewPartnershipRequestRepo(db),
		jobApplicationRepo:     NewJobApplicationRepo(db),
		projectRepo:            NewProjectRepo(db),
		eventRepo:              NewEventRepo(db),
		vacancyRepo:            NewVacancyRepo(db),
	}
}

// WithContext returns a Database whose queries are bound to ctx.
func (d Database) WithContext(ctx context.Context) Database {
	return New(d.db.WithContext(ctx))
}

// Transaction runs fn in one database transaction. fn must use the Database
// it is given, not the receiver.
func (d Database) Transaction(ctx context.Context, fn func(tx Database) error) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(New(tx))
	})
}

// DB exposes the underlying handle for migrations and health checks.
func (d Database) DB() *gorm.DB {
	return d.db
}

// Ping checks that the database answers a trivial query.
func (d Database) Ping(ctx context.Context) error {
	var result int
	return d.db.WithContext(ctx).Raw("SELECT 1").Scan(&result).Error
}

// Accessor methods for each repository

func (d Database) UserRepo() *UserRepo {
	return d.userRepo
}

func (d Database) SessionRepo() *SessionRepo {
	return d.sessionRepo
}

func (d Database) ContactQueryRepo() *ContactQueryRepo {
	return d.contactQueryRepo
}

func (d Database) PartnershipRequestRepo() *PartnershipRequestRepo {
	return d.partnershipRequestRepo
}

func (d Database) JobApplicationRepo() *JobApplicationRepo {
	return d.jobApplicationRepo
}

func (d Database) ProjectRepo() *ProjectRepo {
	return d.projectRepo
}

func (d Database) EventRepo() *EventRepo {
	return d.eventRepo
}

func (d Database) VacancyRepo() *VacancyRepo {
	return d.vacancyRepo
}
