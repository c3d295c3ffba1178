package services

import (
	"database/sql"
	"unicode/utf8"

	"github.com/vaashuyko/wishlist-api/internal/apierr"
	"github.com/vaashuyko/wishlist-api/internal/models"
)

// ItemServiceProvider defines the interface for the demo item services.
type ItemServiceProvider interface {
	CreateItem(name string) (models.Item, error)
	GetItemByID(id int64) (models.Item, error)
}

// ItemService backs the unauthenticated demo endpoints. Items live in the
// database like everything else; there is no process-wide collection.
type ItemService struct {
	db *sql.DB
}

// NewItemService creates a new ItemService.
func NewItemService(db *sql.DB) *ItemService {
	return &ItemService{db: db}
}

// CreateItem persists a demo item.
func (s *ItemService) CreateItem(name string) (models.Item, error) {
	if n := utf8.RuneCountInString(name); n < 1 || n > 100 {
		return models.Item{}, apierr.Validation("name must be 1..100 chars")
	}

	res, err := s.db.Exec("INSERT INTO items (name) VALUES (?)", name)
	if err != nil {
		return models.Item{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.Item{}, err
	}
	return models.Item{ID: id, Name: name}, nil
}

// GetItemByID retrieves a demo item.
func (s *ItemService) GetItemByID(id int64) (models.Item, error) {
	var item models.Item
	err := s.db.QueryRow("SELECT id, name FROM items WHERE id = ?", id).Scan(&item.ID, &item.Name)
	if err == sql.ErrNoRows {
		return models.Item{}, apierr.NotFound("item not found")
	}
	if err != nil {
		return models.Item{}, err
	}
	return item, nil
}
