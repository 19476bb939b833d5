package initiative

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Dan-Zin/Taganrog-mobile-app/internal/models"
	"github.com/paulmach/orb/geojson"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const initiativeColumns = "id, title, description, status, category, address, " +
	"ST_Y(geometry) AS lat, ST_X(geometry) AS lon, " +
	"author_id, author_name, author_role, created_at, updated_at"

// Service is the gorm-backed initiative repository.
type Service struct {
	db       *gorm.DB
	resolver StreetResolver
}

func NewService(db *gorm.DB, resolver StreetResolver) *Service {
	return &Service{db: db, resolver: resolver}
}

func (s *Service) List(ctx context.Context, f Filter) ([]Initiative, error) {
	rows, err := s.selectRows(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list initiatives: %w", err)
	}
	items := make([]Initiative, 0, len(rows))
	for i := range rows {
		items = append(items, rows[i].toInitiative())
	}
	if err := s.attachMedia(ctx, items); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Initiative, error) {
	rows, err := s.selectRow(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get initiative %d: %w", id, err)
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	items := []Initiative{rows[0].toInitiative()}
	if err := s.attachMedia(ctx, items); err != nil {
		return nil, err
	}
	return &items[0], nil
}

// Create inserts the initiative and its media in one transaction and returns
// the stored row.
func (s *Service) Create(ctx context.Context, in Input) (*Initiative, error) {
	if err := validate(in, true); err != nil {
		return nil, err
	}
	address, err := s.resolveAddress(ctx, in.Lat, in.Lon)
	if err != nil {
		return nil, err
	}

	m := models.InitiativeModel{
		Title:       in.Title,
		Description: in.Description,
		Status:      in.Status,
		Category:    in.Category,
		Address:     address,
		Geometry:    models.Point{Lat: in.Lat, Lon: in.Lon},
		AuthorID:    in.AuthorID,
		AuthorName:  in.AuthorName,
		AuthorRole:  in.AuthorRole,
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(&m).Error; err != nil {
			return fmt.Errorf("insert initiative: %w", err)
		}
		if len(in.Media) == 0 {
			return nil
		}
		media := make([]models.MediaModel, 0, len(in.Media))
		for _, item := range in.Media {
			media = append(media, models.MediaModel{
				InitiativeID: m.ID,
				URL:          item.URL,
				MediaType:    item.MediaType,
			})
		}
		if err := tx.Create(&media).Error; err != nil {
			return fmt.Errorf("insert media: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, m.ID)
}

// Update overwrites the editable fields. Author id and media are left alone.
func (s *Service) Update(ctx context.Context, id int64, in Input) (*Initiative, error) {
	if err := s.ensureExists(ctx, id); err != nil {
		return nil, err
	}
	if err := validate(in, false); err != nil {
		return nil, err
	}
	address, err := s.resolveAddress(ctx, in.Lat, in.Lon)
	if err != nil {
		return nil, err
	}

	res := s.db.WithContext(ctx).
		Model(&models.InitiativeModel{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"title":       in.Title,
			"description": in.Description,
			"status":      string(in.Status),
			"category":    in.Category,
			"address":     address,
			"geometry":    models.Point{Lat: in.Lat, Lon: in.Lon},
			"author_name": in.AuthorName,
			"author_role": in.AuthorRole,
			"updated_at":  time.Now(),
		})
	if res.Error != nil {
		return nil, fmt.Errorf("update initiative %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return s.Get(ctx, id)
}

// Delete removes the initiative; its media rows go with it by cascade.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.ensureExists(ctx, id); err != nil {
		return err
	}
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.InitiativeModel{})
	if res.Error != nil {
		return fmt.Errorf("delete initiative %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Service) GeoJSON(ctx context.Context, f Filter) (*geojson.FeatureCollection, error) {
	rows, err := s.selectRows(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list initiatives: %w", err)
	}
	return toFeatureCollection(rows), nil
}

func (s *Service) rowQuery(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).Table(models.InitiativeModel{}.TableName()).Select(initiativeColumns)
}

func (s *Service) selectRows(ctx context.Context, f Filter) ([]initiativeRow, error) {
	q := s.rowQuery(ctx)
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	var rows []initiativeRow
	if err := q.Order("created_at DESC, id DESC").Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *Service) selectRow(ctx context.Context, id int64) ([]initiativeRow, error) {
	var rows []initiativeRow
	if err := s.rowQuery(ctx).Where("id = ?", id).Limit(1).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// attachMedia loads the media of all items with a single IN query.
func (s *Service) attachMedia(ctx context.Context, items []Initiative) error {
	if len(items) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(items))
	index := make(map[int64]int, len(items))
	for i := range items {
		ids = append(ids, items[i].ID)
		index[items[i].ID] = i
	}

	var media []models.MediaModel
	if err := s.db.WithContext(ctx).
		Where("initiative_id IN ?", ids).
		Order("id ASC").
		Find(&media).Error; err != nil {
		return fmt.Errorf("load media: %w", err)
	}
	for _, m := range media {
		i, ok := index[m.InitiativeID]
		if !ok {
			continue
		}
		items[i].Media = append(items[i].Media, Media{
			URL:       m.URL,
			MediaType: m.MediaType,
			CreatedAt: m.CreatedAt,
		})
	}
	return nil
}

func (s *Service) ensureExists(ctx context.Context, id int64) error {
	var n int64
	if err := s.db.WithContext(ctx).
		Model(&models.InitiativeModel{}).
		Where("id = ?", id).
		Count(&n).Error; err != nil {
		return fmt.Errorf("check initiative %d: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Service) resolveAddress(ctx context.Context, lat, lon float64) (string, error) {
	if s.resolver == nil {
		return "", nil
	}
	name, ok, err := s.resolver.ResolveStreetName(ctx, lat, lon)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", nil
	}
	return name, nil
}

func validate(in Input, withMedia bool) error {
	if strings.TrimSpace(in.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	if !in.Status.Valid() {
		return fmt.Errorf("%w: %s", ErrValidation, invalidStatusMessage)
	}
	if !(models.Point{Lat: in.Lat, Lon: in.Lon}).Valid() {
		return fmt.Errorf("%w: coordinates out of range", ErrValidation)
	}
	if !withMedia {
		return nil
	}
	for i, m := range in.Media {
		if strings.TrimSpace(m.URL) == "" || strings.TrimSpace(m.MediaType) == "" {
			return fmt.Errorf("%w: media[%d] needs url and media_type", ErrValidation, i)
		}
	}
	return nil
}

// validationMessage strips the sentinel prefix so clients see only the reason.
func validationMessage(err error) string {
	msg := err.Error()
	if i := strings.Index(msg, ErrValidation.Error()+": "); i >= 0 {
		return msg[i+len(ErrValidation.Error())+2:]
	}
	return msg
}
