package datastore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/exvulsec/rugscope/config"
	"github.com/exvulsec/rugscope/model"
	"github.com/exvulsec/rugscope/utils"
)

const pgErrUniqueViolation = "23505"

var (
	dbInstance  *Instance
	pgxInstance *Instance
)

func initPostgresql() any {
	db, err := gorm.Open(postgres.Open(config.Conf.Postgresql.DSN()), &gorm.Config{})
	if err != nil {
		logrus.Panicf("connect to postgresql is err: %v", err)
		return nil
	}

	stdDB, _ := db.DB()
	stdDB.SetMaxOpenConns(config.Conf.Postgresql.MaxOpenConns)
	stdDB.SetMaxIdleConns(config.Conf.Postgresql.MaxIdleConns)

	if config.Conf.Postgresql.LogMode {
		db = db.Debug()
	}

	logrus.Infof("connect to postgresql successfully")
	return db
}

func initPGX() any {
	poolConfig, err := pgxpool.ParseConfig(config.Conf.Postgresql.DSN())
	if err != nil {
		logrus.Panicf("parse postgresql dsn is err: %v", err)
		return nil
	}
	if config.Conf.Postgresql.MaxOpenConns > 0 {
		poolConfig.MaxConns = int32(config.Conf.Postgresql.MaxOpenConns)
	}

	conn, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		logrus.Panicf("connect to postgresql is err: %v", err)
		return nil
	}

	logrus.Infof("connect to postgresql by pgx is successfully")
	return conn
}

func DB() *gorm.DB {
	return dbInstance.Instance().(*gorm.DB)
}

func PGX() *pgxpool.Pool {
	return pgxInstance.Instance().(*pgxpool.Pool)
}

func init() {
	dbInstance = &Instance{initializer: initPostgresql}
	pgxInstance = &Instance{initializer: initPGX}
}

// PostgresJobStore writes through gorm and lists archives with a raw pgx
// query.
type PostgresJobStore struct {
	db    *gorm.DB
	pool  *pgxpool.Pool
	table string
}

var _ JobStore = (*PostgresJobStore)(nil)

func NewPostgresJobStore(db *gorm.DB, pool *pgxpool.Pool, schema string) *PostgresJobStore {
	if schema == "" {
		schema = SchemaPublic
	}
	return &PostgresJobStore{
		db:    db,
		pool:  pool,
		table: utils.ComposeTableName(schema, TableAnalysisJobs),
	}
}

func (s *PostgresJobStore) Migrate(ctx context.Context) error {
	ddl := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %[1]s (
			id           TEXT PRIMARY KEY,
			user_id      TEXT,
			chain        TEXT NOT NULL,
			identifier   TEXT NOT NULL,
			status       TEXT NOT NULL,
			results_json JSONB,
			created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
		);
		CREATE INDEX IF NOT EXISTS %[2]s_user_id_idx ON %[1]s (user_id, created_at DESC);
	`, s.table, TableAnalysisJobs)

	if _, err := s.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("migrate %s: %w", s.table, err)
	}
	return nil
}

func (s *PostgresJobStore) Create(ctx context.Context, job *model.Job) error {
	if err := validateCreate(job); err != nil {
		return err
	}
	record := *job
	record.ResultJSON = nil
	if err := s.db.WithContext(ctx).Table(s.table).Omit("results_json").Create(&record).Error; err != nil {
		if isDuplicateKeyError(err) {
			return ErrDuplicateKey
		}
		return fmt.Errorf("insert job %s: %w", job.ID, err)
	}
	return nil
}

func (s *PostgresJobStore) GetByID(ctx context.Context, id string) (*model.Job, error) {
	job := model.Job{}
	err := s.db.WithContext(ctx).Table(s.table).Where("id = ?", id).First(&job).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get job %s: %w", id, err)
	}
	if err = decodeResult(&job); err != nil {
		return nil, err
	}
	return &job, nil
}

// UpdateStatusAndResult is a single conditional UPDATE, so status and result
// land in the same row version and a second terminal write matches no row.
func (s *PostgresJobStore) UpdateStatusAndResult(ctx context.Context, id string, status model.JobStatus, result *model.AnalysisResult) error {
	if err := validateUpdate(status, result); err != nil {
		return err
	}

	// FAILED stores SQL NULL, never a JSON null.
	var blob any
	if result != nil {
		raw, err := json.Marshal(result)
		if err != nil {
			return fmt.Errorf("encode result of %s: %w", id, err)
		}
		blob = string(raw)
	}

	tx := s.db.WithContext(ctx).Table(s.table).
		Where("id = ? AND status = ?", id, model.JobStatusPending).
		Updates(map[string]any{"status": status, "results_json": blob})
	if tx.Error != nil {
		return fmt.Errorf("update job %s: %w", id, tx.Error)
	}
	if tx.RowsAffected == 1 {
		return nil
	}

	current, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current.Status, status)
}

func (s *PostgresJobStore) ListByOwner(ctx context.Context, ownerID string) (model.Jobs, error) {
	if ownerID == "" {
		return nil, ErrInvalidInput
	}

	query := fmt.Sprintf(`
		SELECT id, user_id, chain, identifier, status, results_json, created_at
		FROM %s
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`, s.table)

	rows, err := s.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list jobs of %s: %w", ownerID, err)
	}
	defer rows.Close()

	jobs := model.Jobs{}
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate jobs of %s: %w", ownerID, err)
	}
	return jobs, nil
}

func scanJob(row pgx.Row) (*model.Job, error) {
	var (
		job        model.Job
		chain      string
		status     string
		createdAt  time.Time
		resultJSON []byte
	)
	if err := row.Scan(&job.ID, &job.OwnerID, &chain, &job.Identifier, &status, &resultJSON, &createdAt); err != nil {
		return nil, fmt.Errorf("scan job: %w", err)
	}
	job.Chain = utils.Chain(chain)
	job.Status = model.JobStatus(status)
	job.CreatedAt = createdAt.UTC()
	job.ResultJSON = resultJSON
	if err := decodeResult(&job); err != nil {
		return nil, err
	}
	return &job, nil
}

func decodeResult(job *model.Job) error {
	if len(job.ResultJSON) == 0 || string(job.ResultJSON) == "null" {
		job.ResultJSON = nil
		return nil
	}
	result := &model.AnalysisResult{}
	if err := json.Unmarshal(job.ResultJSON, result); err != nil {
		return fmt.Errorf("decode result of %s: %w", job.ID, err)
	}
	job.Result = result
	job.ResultJSON = nil
	return nil
}

func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgErrUniqueViolation
	}
	return false
}
