package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/google/uuid"

	"github.com/harborcare/opdflow/internal/domain/entities"
	"github.com/harborcare/opdflow/internal/infrastructure/clients/postgres"
	"github.com/harborcare/opdflow/pkg/config"
)

var schema = `
CREATE TABLE IF NOT EXISTS departments (
	department_id   VARCHAR(64) PRIMARY KEY,
	name            VARCHAR(255) NOT NULL,
	department_code VARCHAR(16) NOT NULL UNIQUE,
	created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS doctors (
	doctor_id                    VARCHAR(64) PRIMARY KEY,
	name                         VARCHAR(255) NOT NULL,
	department_id                VARCHAR(64) NOT NULL REFERENCES departments(department_id),
	average_consultation_minutes DOUBLE PRECISION NOT NULL DEFAULT 15,
	current_status               VARCHAR(32) NOT NULL DEFAULT 'Available',
	created_at                   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at                   TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS patients (
	patient_id         VARCHAR(64) PRIMARY KEY,
	first_name         VARCHAR(255) NOT NULL,
	last_name          VARCHAR(255) NOT NULL,
	phone              VARCHAR(32),
	date_of_birth      DATE NOT NULL,
	chronic_conditions TEXT,
	created_at         TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at         TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS queue_entries (
	queue_id                VARCHAR(64) PRIMARY KEY,
	patient_id              VARCHAR(64) NOT NULL REFERENCES patients(patient_id),
	doctor_id               VARCHAR(64) NOT NULL REFERENCES doctors(doctor_id),
	department_id           VARCHAR(64) NOT NULL REFERENCES departments(department_id),
	token_number            VARCHAR(16) NOT NULL,
	visit_type              VARCHAR(32) NOT NULL,
	symptom_severity        VARCHAR(32) NOT NULL,
	age                     INTEGER NOT NULL,
	has_chronic_condition   BOOLEAN NOT NULL DEFAULT FALSE,
	is_emergency            BOOLEAN NOT NULL DEFAULT FALSE,
	priority_score          INTEGER NOT NULL,
	queue_position          INTEGER NOT NULL,
	status                  VARCHAR(32) NOT NULL DEFAULT 'Waiting',
	notes                   TEXT,
	check_in_time           TIMESTAMPTZ NOT NULL,
	consultation_start_time TIMESTAMPTZ,
	consultation_end_time   TIMESTAMPTZ,
	estimated_wait_minutes  INTEGER NOT NULL DEFAULT 0,
	created_at              TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at              TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_queue_entries_doctor_status
	ON queue_entries (doctor_id, status);
CREATE INDEX IF NOT EXISTS idx_queue_entries_department_checkin
	ON queue_entries (department_id, check_in_time);

CREATE TABLE IF NOT EXISTS consultation_history (
	consultation_id             VARCHAR(64) PRIMARY KEY,
	queue_id                    VARCHAR(64) NOT NULL REFERENCES queue_entries(queue_id),
	patient_id                  VARCHAR(64) NOT NULL REFERENCES patients(patient_id),
	doctor_id                   VARCHAR(64) NOT NULL REFERENCES doctors(doctor_id),
	actual_consultation_minutes INTEGER NOT NULL,
	diagnosis                   TEXT,
	consultation_notes          TEXT,
	recorded_at                 TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_consultation_history_doctor
	ON consultation_history (doctor_id);
`

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer pgClient.Close()

	ctx := context.Background()
	dialect := goqu.Dialect("postgres")

	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, truncating tables before seeding")
		_, err := pgClient.DB().ExecContext(ctx, `
			TRUNCATE TABLE
				consultation_history,
				queue_entries,
				doctors,
				patients,
				departments
			RESTART IDENTITY CASCADE
		`)
		if err != nil {
			log.Fatalf("Failed to reset tables: %v", err)
		}
	}

	if _, err := pgClient.DB().ExecContext(ctx, schema); err != nil {
		log.Fatalf("Failed to ensure schema: %v", err)
	}

	// 1. Seed Departments
	departments := []entities.Department{
		{ID: uuid.New().String(), Name: "Cardiology", Code: "CARD", CreatedAt: time.Now()},
		{ID: uuid.New().String(), Name: "Orthopedics", Code: "ORTH", CreatedAt: time.Now()},
		{ID: uuid.New().String(), Name: "General Medicine", Code: "GEN", CreatedAt: time.Now()},
		{ID: uuid.New().String(), Name: "Pediatrics", Code: "PED", CreatedAt: time.Now()},
		{ID: uuid.New().String(), Name: "ENT", Code: "ENT", CreatedAt: time.Now()},
	}

	for _, d := range departments {
		query, args, err := dialect.Insert("departments").Rows(goqu.Record{
			"department_id":   d.ID,
			"name":            d.Name,
			"department_code": d.Code,
			"created_at":      d.CreatedAt,
		}).OnConflict(goqu.DoNothing()).ToSQL()
		if err != nil {
			log.Fatalf("Failed to build department insert: %v", err)
		}
		if _, err := pgClient.DB().ExecContext(ctx, query, args...); err != nil {
			log.Printf("Failed to create department %s: %v", d.Name, err)
		}
	}

	// 2. Seed Doctors (two per department where the OPD runs parallel rooms)
	doctorNames := map[string][]string{
		"CARD": {"Dr. Adaeze Okonkwo", "Dr. Tunde Bakare"},
		"ORTH": {"Dr. Chinedu Eze"},
		"GEN":  {"Dr. Funmi Adeyemi", "Dr. Ibrahim Musa"},
		"PED":  {"Dr. Ngozi Obi"},
		"ENT":  {"Dr. Samuel Adebayo"},
	}

	for _, d := range departments {
		for _, name := range doctorNames[d.Code] {
			query, args, err := dialect.Insert("doctors").Rows(goqu.Record{
				"doctor_id":                    uuid.New().String(),
				"name":                         name,
				"department_id":                d.ID,
				"average_consultation_minutes": cfg.Queue.DefaultAverageConsultationMinutes,
				"current_status":               entities.DoctorStatusAvailable,
				"created_at":                   time.Now(),
				"updated_at":                   time.Now(),
			}).ToSQL()
			if err != nil {
				log.Fatalf("Failed to build doctor insert: %v", err)
			}
			if _, err := pgClient.DB().ExecContext(ctx, query, args...); err != nil {
				log.Printf("Failed to create doctor %s: %v", name, err)
			}
		}
	}

	// 3. Seed Patients across the age bands the scorer distinguishes
	type seedPatient struct {
		firstName  string
		lastName   string
		phone      string
		birthYear  int
		conditions string
	}

	patients := []seedPatient{
		{"Amina", "Yusuf", "+2348031234567", 1951, "Hypertension, Diabetes"},
		{"Emeka", "Nwosu", "+2348029876543", 1962, ""},
		{"Bisi", "Adebola", "+2347011112222", 1990, "Asthma"},
		{"Kelechi", "Okafor", "+2349033334444", 2021, ""},
		{"Halima", "Bello", "+2348055556666", 2015, ""},
		{"Tobi", "Ogunleye", "+2347077778888", 1985, ""},
	}

	for _, p := range patients {
		query, args, err := dialect.Insert("patients").Rows(goqu.Record{
			"patient_id":         uuid.New().String(),
			"first_name":         p.firstName,
			"last_name":          p.lastName,
			"phone":              p.phone,
			"date_of_birth":      time.Date(p.birthYear, time.March, 15, 0, 0, 0, 0, time.UTC),
			"chronic_conditions": p.conditions,
			"created_at":         time.Now(),
			"updated_at":         time.Now(),
		}).ToSQL()
		if err != nil {
			log.Fatalf("Failed to build patient insert: %v", err)
		}
		if _, err := pgClient.DB().ExecContext(ctx, query, args...); err != nil {
			log.Printf("Failed to create patient %s %s: %v", p.firstName, p.lastName, err)
		}
	}

	log.Printf("Seeding complete: %d departments, %d patients", len(departments), len(patients))
}
