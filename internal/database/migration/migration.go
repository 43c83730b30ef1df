package migration

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"time"
)

type migrationStep struct {
	Name string
	SQL  string
}

var steps = []migrationStep{
	{
		Name: "create_extension_uuid_ossp",
		SQL:  `CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	},
	{
		Name: "create_table_dependencias",
		SQL: `CREATE TABLE IF NOT EXISTS dependencias (
  id     UUID    PRIMARY KEY DEFAULT uuid_generate_v4(),
  name   TEXT    NOT NULL UNIQUE,
  active BOOLEAN NOT NULL DEFAULT TRUE
);`,
	},
	{
		Name: "create_table_unidades_academicas",
		SQL: `CREATE TABLE IF NOT EXISTS unidades_academicas (
  id            UUID    PRIMARY KEY DEFAULT uuid_generate_v4(),
  department_id UUID    NOT NULL REFERENCES dependencias(id),
  name          TEXT    NOT NULL,
  active        BOOLEAN NOT NULL DEFAULT TRUE
);`,
	},
	{
		Name: "create_table_usuarios",
		SQL: `CREATE TABLE IF NOT EXISTS usuarios (
  id            UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  first_name    TEXT        NOT NULL,
  last_name     TEXT        NOT NULL,
  email         TEXT        NOT NULL,
  role          TEXT        NOT NULL CHECK (role IN ('administrator','editor','reader')),
  is_author     BOOLEAN     NOT NULL DEFAULT FALSE,
  active        BOOLEAN     NOT NULL DEFAULT TRUE,
  photo_path    TEXT        NOT NULL DEFAULT '',
  password_hash TEXT        NOT NULL,
  created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_unique_usuarios_email_ci",
		SQL:  `CREATE UNIQUE INDEX IF NOT EXISTS idx_usuarios_email_ci ON usuarios (lower(email));`,
	},
	{
		Name: "create_table_autores",
		SQL: `CREATE TABLE IF NOT EXISTS autores (
  id                   UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  full_name            TEXT        NOT NULL,
  email                TEXT        NOT NULL,
  institution_type     TEXT        NOT NULL CHECK (institution_type IN ('internal','external')),
  external_institution TEXT        NOT NULL DEFAULT '',
  department_id        UUID        REFERENCES dependencias(id),
  academic_unit_id     UUID        REFERENCES unidades_academicas(id),
  user_id              UUID        REFERENCES usuarios(id),
  created_at           TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at           TIMESTAMPTZ NOT NULL DEFAULT now(),
  CHECK (
    (institution_type = 'internal' AND external_institution = '' AND department_id IS NOT NULL)
    OR
    (institution_type = 'external' AND external_institution <> '' AND department_id IS NULL AND academic_unit_id IS NULL)
  )
);`,
	},
	{
		Name: "create_unique_autores_email_ci",
		SQL:  `CREATE UNIQUE INDEX IF NOT EXISTS idx_autores_email_ci ON autores (lower(email));`,
	},
	{
		Name: "create_unique_autores_full_name_ci",
		SQL:  `CREATE UNIQUE INDEX IF NOT EXISTS idx_autores_full_name_ci ON autores (lower(full_name));`,
	},
	{
		Name: "create_table_libros",
		SQL: `CREATE TABLE IF NOT EXISTS libros (
  id                UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  registration_code TEXT        NOT NULL,
  isbn              TEXT        NOT NULL UNIQUE,
  doi               TEXT        NOT NULL DEFAULT '',
  title             TEXT        NOT NULL,
  subtitle          TEXT        NOT NULL DEFAULT '',
  subject           TEXT        NOT NULL,
  topic             TEXT        NOT NULL,
  collection        TEXT        NOT NULL DEFAULT '',
  edition           INT         NOT NULL CHECK (edition > 0),
  publication_year  INT         NOT NULL,
  page_count        INT         NOT NULL CHECK (page_count >= 0),
  authorship        TEXT        NOT NULL CHECK (authorship IN ('individual','co-authored','collective')),
  format            TEXT        NOT NULL CHECK (format IN ('print','print-on-demand','electronic-open','electronic-commercial','other')),
  cover_path        TEXT        NOT NULL DEFAULT '',
  pdf_path          TEXT        NOT NULL DEFAULT '',
  synopsis          TEXT        NOT NULL DEFAULT '',
  created_at        TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at        TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_libro_autor",
		SQL: `CREATE TABLE IF NOT EXISTS libro_autor (
  book_id   UUID NOT NULL REFERENCES libros(id) ON DELETE CASCADE,
  author_id UUID NOT NULL REFERENCES autores(id) ON DELETE CASCADE,
  role      TEXT NOT NULL CHECK (role IN ('principal-author','co-author','co-editor')),
  PRIMARY KEY (book_id, author_id)
);`,
	},
	{
		Name: "create_unique_libro_autor_principal",
		SQL:  `CREATE UNIQUE INDEX IF NOT EXISTS idx_libro_autor_principal ON libro_autor (book_id) WHERE role = 'principal-author';`,
	},
	{
		Name: "create_table_lectores",
		SQL: `CREATE TABLE IF NOT EXISTS lectores (
  id          UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  first_name  TEXT        NOT NULL,
  last_name   TEXT        NOT NULL,
  email       TEXT        NOT NULL,
  institution TEXT        NOT NULL DEFAULT '',
  created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_unique_lectores_email_ci",
		SQL:  `CREATE UNIQUE INDEX IF NOT EXISTS idx_lectores_email_ci ON lectores (lower(email));`,
	},
	{
		Name: "create_table_solicitudes",
		SQL: `CREATE TABLE IF NOT EXISTS solicitudes (
  id         UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  reader_id  UUID        NOT NULL REFERENCES lectores(id),
  book_id    UUID        NOT NULL REFERENCES libros(id),
  reason     TEXT        NOT NULL DEFAULT '',
  status     TEXT        NOT NULL DEFAULT 'pending' CHECK (status IN ('pending','approved','rejected','closed')),
  created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_soporte",
		SQL: `CREATE TABLE IF NOT EXISTS soporte (
  id         UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  user_id    UUID        REFERENCES usuarios(id),
  email      TEXT        NOT NULL,
  subject    TEXT        NOT NULL,
  message    TEXT        NOT NULL,
  status     TEXT        NOT NULL DEFAULT 'open' CHECK (status IN ('open','in-progress','resolved')),
  created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_libro_adjuntos",
		SQL: `CREATE TABLE IF NOT EXISTS libro_adjuntos (
  id           UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  book_id      UUID        NOT NULL REFERENCES libros(id) ON DELETE CASCADE,
  type         TEXT        NOT NULL,
  origin       TEXT        NOT NULL CHECK (origin IN ('file','url')),
  storage_path TEXT        NOT NULL DEFAULT '',
  external_url TEXT        NOT NULL DEFAULT '',
  note         TEXT        NOT NULL DEFAULT '',
  size         BIGINT      NOT NULL DEFAULT 0 CHECK (size >= 0),
  content_type TEXT        NOT NULL DEFAULT '',
  created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
  CHECK (
    (origin = 'file' AND storage_path <> '' AND external_url = '')
    OR
    (origin = 'url' AND external_url <> '' AND storage_path = '')
  )
);`,
	},
	{
		Name: "create_index_libro_adjuntos_book",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_libro_adjuntos_book ON libro_adjuntos (book_id);`,
	},
	{
		Name: "create_index_libros_title",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_libros_title ON libros (title);`,
	},
	{
		Name: "create_index_libros_created_at",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_libros_created_at ON libros (created_at);`,
	},
}

// EnsureMigrated checks if the 'libros' sentinel table exists and runs the
// ordered migration steps if it doesn't. Steps are idempotent, so a partially
// applied schema is completed on the next run.
func EnsureMigrated(ctx context.Context, db *sql.DB, loc *time.Location, dbHost string) error {
	start := time.Now()

	logJSON(loc, map[string]any{
		"component": "database",
		"event":     "db_migration_check",
		"status":    "starting",
		"db_host":   dbHost,
	})

	var exists bool
	query := "SELECT to_regclass('public.libros') IS NOT NULL"
	err := db.QueryRowContext(ctx, query).Scan(&exists)
	if err != nil {
		logJSON(loc, map[string]any{
			"component":     "database",
			"event":         "db_migration_failed",
			"status":        "error",
			"error_message": fmt.Sprintf("failed to check sentinel table: %v", err),
			"db_host":       dbHost,
			"duration_ms":   time.Since(start).Milliseconds(),
		})
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		logJSON(loc, map[string]any{
			"component":   "database",
			"event":       "db_migration_skip",
			"status":      "success",
			"msg":         "schema already exists, skipping migration",
			"db_host":     dbHost,
			"duration_ms": time.Since(start).Milliseconds(),
		})
		return nil
	}

	logJSON(loc, map[string]any{
		"component": "database",
		"event":     "db_migration_start",
		"status":    "in_progress",
		"db_host":   dbHost,
	})

	for _, step := range steps {
		stepStart := time.Now()
		_, err := db.ExecContext(ctx, step.SQL)
		if err != nil {
			logJSON(loc, map[string]any{
				"component":        "database",
				"event":            "db_migration_failed",
				"status":           "error",
				"migration_step":   step.Name,
				"error_message":    err.Error(),
				"db_host":          dbHost,
				"duration_ms":      time.Since(start).Milliseconds(),
				"step_duration_ms": time.Since(stepStart).Milliseconds(),
			})
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		logJSON(loc, map[string]any{
			"component":        "database",
			"event":            "db_migration_step",
			"status":           "success",
			"migration_step":   step.Name,
			"db_host":          dbHost,
			"step_duration_ms": time.Since(stepStart).Milliseconds(),
		})
	}

	logJSON(loc, map[string]any{
		"component":   "database",
		"event":       "db_migration_done",
		"status":      "success",
		"db_host":     dbHost,
		"duration_ms": time.Since(start).Milliseconds(),
	})
	return nil
}

func logJSON(loc *time.Location, fields map[string]any) {
	if loc == nil {
		loc = time.UTC
	}
	fields["ts"] = time.Now().In(loc).Format(time.RFC3339)
	b, err := json.Marshal(fields)
	if err != nil {
		return
	}
	fmt.Fprintln(os.Stdout, string(b))
}
