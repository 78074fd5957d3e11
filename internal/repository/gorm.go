package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/justsurfingit/jobhunter/internal/apperrors"
	"github.com/justsurfingit/jobhunter/internal/filter"
	"github.com/justsurfingit/jobhunter/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var _ Store = (*GormStore)(nil)

// GormStore works with any gorm dialector; the API uses postgres in
// production and SQLite for the embedded mode.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// SQLite's LOWER only folds ASCII, so on that dialector the search runs in
// memory with filter's Unicode-aware matching.
func (s *GormStore) searchInMemory() bool {
	return s.db.Dialector.Name() == "sqlite"
}

func (s *GormStore) jobsQuery(ctx context.Context, ownerID string, c filter.Criteria) *gorm.DB {
	q := s.db.WithContext(ctx).Where("owner_id = ?", ownerID)
	if term := c.SearchTerm(); term != "" && !s.searchInMemory() {
		like := "%" + likeEscaper.Replace(term) + "%"
		q = q.Where(`(LOWER(company) LIKE ? ESCAPE '\' OR LOWER(title) LIKE ? ESCAPE '\')`, like, like)
	}
	if v := c.TrackValue(); v != "" {
		q = q.Where("track = ?", v)
	}
	if v := c.StatusValue(); v != "" {
		q = q.Where("status = ?", v)
	}
	if c.Archived != nil {
		q = q.Where("archived = ?", *c.Archived)
	}
	return q
}

func (s *GormStore) FindAll(ctx context.Context, ownerID string, c filter.Criteria) ([]models.Job, error) {
	jobs := []models.Job{}
	err := s.jobsQuery(ctx, ownerID, c).Order("date DESC").Order("created_at DESC").Find(&jobs).Error
	if err != nil {
		return nil, fmt.Errorf("find jobs: %w", err)
	}
	for i := range jobs {
		jobs[i].Normalize()
	}
	if c.SearchTerm() != "" && s.searchInMemory() {
		jobs = filter.Apply(jobs, filter.Criteria{Search: c.Search})
	}
	return jobs, nil
}

func (s *GormStore) FindOne(ctx context.Context, ownerID, id string) (*models.Job, error) {
	var job models.Job
	err := s.db.WithContext(ctx).Where("id = ? AND owner_id = ?", id, ownerID).First(&job).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("job", id)
	}
	if err != nil {
		return nil, fmt.Errorf("find job %s: %w", id, err)
	}
	job.Normalize()
	return &job, nil
}

func (s *GormStore) Insert(ctx context.Context, job *models.Job) error {
	job.Normalize()
	if err := s.db.WithContext(ctx).Create(job).Error; err != nil {
		return fmt.Errorf("insert job: %w", err)
	}
	return nil
}

func (s *GormStore) Update(ctx context.Context, job *models.Job) error {
	job.Normalize()
	res := s.db.WithContext(ctx).
		Model(job).
		Where("owner_id = ?", job.OwnerID).
		Select("*").
		Omit("ID", "OwnerID", "CreatedAt").
		Updates(job)
	if res.Error != nil {
		return fmt.Errorf("update job %s: %w", job.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("job", job.ID)
	}
	return nil
}

func (s *GormStore) Delete(ctx context.Context, ownerID, id string) error {
	res := s.db.WithContext(ctx).Where("id = ? AND owner_id = ?", id, ownerID).Delete(&models.Job{})
	if res.Error != nil {
		return fmt.Errorf("delete job %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("job", id)
	}
	return nil
}

func (s *GormStore) ReplaceAll(ctx context.Context, ownerID string, jobs []models.Job) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("owner_id = ?", ownerID).Delete(&models.Job{}).Error; err != nil {
			return fmt.Errorf("clear jobs: %w", err)
		}
		if len(jobs) == 0 {
			return nil
		}
		for i := range jobs {
			jobs[i].OwnerID = ownerID
			jobs[i].Normalize()
		}
		if err := tx.CreateInBatches(jobs, 100).Error; err != nil {
			return fmt.Errorf("insert jobs: %w", err)
		}
		return nil
	})
}

func (s *GormStore) Create(ctx context.Context, user *models.User) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", user.Email).Count(&count).Error; err != nil {
		return fmt.Errorf("check email: %w", err)
	}
	if count > 0 {
		return apperrors.Conflict("email already registered")
	}
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperrors.Conflict("email already registered")
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (s *GormStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findUser(ctx, "email = ?", email)
}

func (s *GormStore) FindByID(ctx context.Context, id string) (*models.User, error) {
	return s.findUser(ctx, "id = ?", id)
}

func (s *GormStore) findUser(ctx context.Context, cond string, arg string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where(cond, arg).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("user", "")
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &user, nil
}

func (s *GormStore) SaveHistoryID(ctx context.Context, userID string, historyID uint64) error {
	res := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Update("last_history_id", historyID)
	if res.Error != nil {
		return fmt.Errorf("save history id: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("user", userID)
	}
	return nil
}

func (s *GormStore) IsProcessed(ctx context.Context, messageID string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.ProcessedEmail{}).Where("id = ?", messageID).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check processed email: %w", err)
	}
	return count > 0, nil
}

func (s *GormStore) MarkProcessed(ctx context.Context, messageID, ownerID string) error {
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.ProcessedEmail{ID: messageID, OwnerID: ownerID}).Error
	if err != nil {
		return fmt.Errorf("mark email processed: %w", err)
	}
	return nil
}
