package service

import (
	"context"
	"errors"
	"strings"

	"github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"opentrees/api/internal/apperr"
	"opentrees/api/internal/geocode"
	"opentrees/api/internal/model"
)

// TreeService handles tree record business logic: validation, geocoding of
// records without coordinates, geometry derivation and persistence.
type TreeService struct {
	db       *gorm.DB
	geocoder geocode.Geocoder
	events   *EventPublisher
	logger   *zap.Logger
}

// NewTreeService creates a new tree service.
func NewTreeService(db *gorm.DB, geocoder geocode.Geocoder, events *EventPublisher, logger *zap.Logger) *TreeService {
	return &TreeService{
		db:       db,
		geocoder: geocoder,
		events:   events,
		logger:   logger,
	}
}

// Create validates, geocodes if needed, and persists a new tree record.
// Nothing is persisted when validation or geocoding fails.
func (s *TreeService) Create(ctx context.Context, req *model.CreateTreeRequest) (*model.Tree, error) {
	var missing []string
	if req.CustomID == "" {
		missing = append(missing, "custom_id")
	}
	if req.City == "" {
		missing = append(missing, "city")
	}
	if req.Species == "" {
		missing = append(missing, "species")
	}
	if req.Condition == "" {
		missing = append(missing, "condition")
	}
	if len(missing) > 0 {
		return nil, apperr.Validation("missing required fields: %s", strings.Join(missing, ", "))
	}

	lat, lon, err := s.resolveCoordinates(ctx, req)
	if err != nil {
		return nil, err
	}

	var nextCheck *model.Date
	if req.NextCheck != "" {
		parsed, err := model.ParseDate(req.NextCheck)
		if err != nil {
			return nil, apperr.Validation("invalid date format for next_check, use YYYY-MM-DD")
		}
		nextCheck = &parsed
	}

	tree := &model.Tree{
		CustomID:      req.CustomID,
		Address:       req.Address,
		City:          req.City,
		Species:       req.Species,
		Condition:     req.Condition,
		Comments:      req.Comments,
		Actions:       req.Actions,
		Height:        string(req.Height),
		TrunkDiameter: req.TrunkDiameter,
		CrownDiameter: req.CrownDiameter,
		Age:           string(req.Age),
		Location:      req.Location,
		CPC:           req.CPC,
		NextCheck:     nextCheck,
	}
	tree.SetCoordinates(lat, lon)

	if err := s.db.WithContext(ctx).Create(tree).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, apperr.Conflict("tree with custom_id %q already exists", req.CustomID)
		}
		return nil, apperr.Store(err)
	}

	s.logger.Info("tree created",
		zap.Uint("id", tree.ID),
		zap.String("custom_id", tree.CustomID),
		zap.String("city", tree.City),
	)
	s.events.Publish(SubjectTreeCreated, tree)
	return tree, nil
}

// resolveCoordinates returns the coordinates for a create request, calling
// the geocoder when either ordinate is absent. The city is appended to the
// query to disambiguate street names shared across cities.
func (s *TreeService) resolveCoordinates(ctx context.Context, req *model.CreateTreeRequest) (float64, float64, error) {
	if req.Latitude != nil && req.Longitude != nil {
		return *req.Latitude, *req.Longitude, nil
	}
	if req.Address == "" {
		return 0, 0, apperr.Validation("either coordinates or address is required")
	}

	query := req.Address + ", " + req.City
	lat, lon, err := s.geocoder.Geocode(ctx, query)
	if err != nil {
		return 0, 0, err
	}
	return lat, lon, nil
}

// Update applies a partial update to the mutable field set. Absent fields
// stay untouched; a malformed next_check aborts the whole request.
func (s *TreeService) Update(ctx context.Context, id uint, req *model.UpdateTreeRequest) (*model.Tree, error) {
	tree, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Condition != nil {
		updates["condition"] = *req.Condition
	}
	if req.Comments != nil {
		updates["comments"] = *req.Comments
	}
	if req.Actions != nil {
		updates["actions"] = *req.Actions
	}
	if req.Height != nil {
		updates["height"] = string(*req.Height)
	}
	if req.TrunkDiameter != nil {
		updates["trunk_diameter_cm"] = *req.TrunkDiameter
	}
	if req.CrownDiameter != nil {
		updates["crown_diameter_m"] = *req.CrownDiameter
	}
	if req.Age != nil {
		updates["age"] = string(*req.Age)
	}
	if req.Location != nil {
		updates["location"] = *req.Location
	}
	if req.CPC != nil {
		updates["cpc"] = *req.CPC
	}
	if req.NextCheck != nil {
		if *req.NextCheck == "" {
			updates["next_check"] = nil
		} else {
			parsed, err := model.ParseDate(*req.NextCheck)
			if err != nil {
				return nil, apperr.Validation("invalid date format for next_check, use YYYY-MM-DD")
			}
			updates["next_check"] = parsed
		}
	}

	if len(updates) == 0 {
		return tree, nil
	}

	if err := s.db.WithContext(ctx).Model(&model.Tree{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return nil, apperr.Store(err)
	}

	updated, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.logger.Info("tree updated", zap.Uint("id", id), zap.Int("fields", len(updates)))
	s.events.Publish(SubjectTreeUpdated, updated)
	return updated, nil
}

// GetByID returns a tree by its system-assigned id.
func (s *TreeService) GetByID(ctx context.Context, id uint) (*model.Tree, error) {
	var tree model.Tree
	if err := s.db.WithContext(ctx).First(&tree, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("tree not found")
		}
		return nil, apperr.Store(err)
	}
	return &tree, nil
}

// GetByCustomID returns a tree by its caller-assigned identifier.
func (s *TreeService) GetByCustomID(ctx context.Context, customID string) (*model.Tree, error) {
	var tree model.Tree
	if err := s.db.WithContext(ctx).Where("custom_id = ?", customID).First(&tree).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("tree not found")
		}
		return nil, apperr.Store(err)
	}
	return &tree, nil
}

// List returns trees matching the filter. City and address are optional
// case-insensitive substring matches; condition is an exact match against
// the recorded value. No ordering is guaranteed.
func (s *TreeService) List(ctx context.Context, filter model.TreeFilter) ([]model.Tree, error) {
	query := s.db.WithContext(ctx).Model(&model.Tree{})
	if filter.City != "" {
		query = query.Where("LOWER(city) LIKE ?", "%"+strings.ToLower(filter.City)+"%")
	}
	if filter.Address != "" {
		query = query.Where("LOWER(address) LIKE ?", "%"+strings.ToLower(filter.Address)+"%")
	}
	if filter.Condition != "" {
		query = query.Where("condition = ?", filter.Condition)
	}

	var trees []model.Tree
	if err := query.Find(&trees).Error; err != nil {
		return nil, apperr.Store(err)
	}
	return trees, nil
}

// Delete removes a tree record. The delete is hard; deleting an unknown id
// reports not-found rather than success.
func (s *TreeService) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&model.Tree{}, id)
	if res.Error != nil {
		return apperr.Store(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("tree not found")
	}

	s.logger.Info("tree deleted", zap.Uint("id", id))
	s.events.Publish(SubjectTreeDeleted, map[string]uint{"id": id})
	return nil
}

// Cities returns the distinct set of cities with at least one record.
func (s *TreeService) Cities(ctx context.Context) ([]string, error) {
	var cities []string
	err := s.db.WithContext(ctx).Model(&model.Tree{}).
		Where("city IS NOT NULL").
		Distinct().
		Pluck("city", &cities).Error
	if err != nil {
		return nil, apperr.Store(err)
	}
	return cities, nil
}

// Streets returns the distinct addresses recorded for a city.
func (s *TreeService) Streets(ctx context.Context, city string) ([]string, error) {
	var streets []string
	err := s.db.WithContext(ctx).Model(&model.Tree{}).
		Where("city = ? AND address IS NOT NULL AND address <> ''", city).
		Distinct().
		Pluck("address", &streets).Error
	if err != nil {
		return nil, apperr.Store(err)
	}
	return streets, nil
}

// isUniqueViolation recognizes duplicate-key failures across the gorm error
// translation layer and the raw postgres driver.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
