package services

import (
	"database/sql"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/vaashuyko/wishlist-api/internal/apierr"
	"github.com/vaashuyko/wishlist-api/internal/database"
	"github.com/vaashuyko/wishlist-api/internal/models"
)

// WishServiceProvider defines the interface for wish services.
type WishServiceProvider interface {
	CreateWish(ownerID int64, in models.WishCreate) (models.Wish, error)
	ListWishes(ownerID int64, limit, offset int, priceLT *decimal.Decimal) (models.WishList, error)
	GetWish(ownerID, wishID int64) (models.Wish, error)
	UpdateWish(ownerID, wishID int64, patch models.WishPatch) (models.Wish, error)
	DeleteWish(ownerID, wishID int64) error
}

// WishService provides owner-scoped business logic for wishes. All state
// lives in the database; mutations run inside a transaction so a concurrent
// delete surfaces as not-found rather than a partial write.
type WishService struct {
	db *sql.DB
}

// NewWishService creates a new WishService.
func NewWishService(db *sql.DB) *WishService {
	return &WishService{db: db}
}

// maxPrice is the largest representable price: 10 total digits with 2
// fractional, i.e. 99999999.99.
var maxPrice = decimal.New(9999999999, -2)

// priceToCents validates the price constraints and converts to the exact
// integer-cents storage form.
func priceToCents(p decimal.Decimal) (int64, error) {
	if p.IsNegative() {
		return 0, apierr.Validation("price_estimate must be non-negative")
	}
	if !p.Equal(p.Truncate(2)) {
		return 0, apierr.Validation("price_estimate allows at most 2 decimal places")
	}
	if p.GreaterThan(maxPrice) {
		return 0, apierr.Validation("price_estimate allows at most 10 digits")
	}
	return p.Shift(2).IntPart(), nil
}

func centsToPrice(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}

func validateTitle(title string) error {
	if n := utf8.RuneCountInString(title); n < 1 || n > 200 {
		return apierr.Validation("title must be 1..200 chars")
	}
	return nil
}

func validateLink(link *string) error {
	if link != nil && utf8.RuneCountInString(*link) > 500 {
		return apierr.Validation("link must be at most 500 chars")
	}
	return nil
}

func validateNotes(notes *string) error {
	if notes != nil && utf8.RuneCountInString(*notes) > 1000 {
		return apierr.Validation("notes must be at most 1000 chars")
	}
	return nil
}

// CreateWish validates the payload and persists a new wish owned by
// ownerID. The owner always comes from the resolved identity, never from
// client input.
func (s *WishService) CreateWish(ownerID int64, in models.WishCreate) (models.Wish, error) {
	if err := validateTitle(in.Title); err != nil {
		return models.Wish{}, err
	}
	if err := validateLink(in.Link); err != nil {
		return models.Wish{}, err
	}
	if err := validateNotes(in.Notes); err != nil {
		return models.Wish{}, err
	}
	if in.PriceEstimate == nil {
		return models.Wish{}, apierr.Validation("price_estimate is required")
	}
	cents, err := priceToCents(*in.PriceEstimate)
	if err != nil {
		return models.Wish{}, err
	}

	now := time.Now().UTC()
	res, err := s.db.Exec(`
		INSERT INTO wishes (title, link, price_cents, notes, is_favorite, owner_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, 0, ?, ?, ?)`,
		in.Title, in.Link, cents, in.Notes, ownerID,
		database.FormatTime(now), database.FormatTime(now),
	)
	if err != nil {
		return models.Wish{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.Wish{}, err
	}

	return models.Wish{
		ID:            id,
		Title:         in.Title,
		Link:          in.Link,
		PriceEstimate: centsToPrice(cents),
		Notes:         in.Notes,
		OwnerID:       ownerID,
		IsFavorite:    false,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// ListWishes returns one page of the owner's wishes, newest first, together
// with the total matching count before pagination. priceLT filters to
// prices strictly below the given non-negative decimal.
func (s *WishService) ListWishes(ownerID int64, limit, offset int, priceLT *decimal.Decimal) (models.WishList, error) {
	if limit < 1 || limit > 100 {
		return models.WishList{}, apierr.Validation("limit must be between 1 and 100")
	}
	if offset < 0 {
		return models.WishList{}, apierr.Validation("offset must be non-negative")
	}

	where := "owner_id = ?"
	args := []any{ownerID}
	if priceLT != nil {
		if priceLT.IsNegative() {
			return models.WishList{}, apierr.Validation("price_lt must be non-negative")
		}
		// Strict comparison over cents; a filter with extra precision
		// (e.g. 10.005) still compares exactly via ceil scaling.
		where += " AND price_cents < ?"
		args = append(args, priceLT.Shift(2).Ceil().IntPart())
	}

	var total int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM wishes WHERE "+where, args...).Scan(&total); err != nil {
		return models.WishList{}, err
	}

	rows, err := s.db.Query(`
		SELECT id, title, link, price_cents, notes, is_favorite, owner_id, created_at, updated_at
		FROM wishes WHERE `+where+`
		ORDER BY created_at DESC, id ASC
		LIMIT ? OFFSET ?`,
		append(args, limit, offset)...,
	)
	if err != nil {
		return models.WishList{}, err
	}
	defer rows.Close()

	items := []models.Wish{}
	for rows.Next() {
		wish, err := scanWish(rows)
		if err != nil {
			return models.WishList{}, err
		}
		items = append(items, wish)
	}
	if err := rows.Err(); err != nil {
		return models.WishList{}, err
	}

	return models.WishList{Items: items, Total: total, Limit: limit, Offset: offset}, nil
}

// GetWish retrieves a wish, enforcing ownership. A missing id and a
// foreign-owned wish are distinct failures.
func (s *WishService) GetWish(ownerID, wishID int64) (models.Wish, error) {
	return getWishOwned(s.db, ownerID, wishID)
}

// UpdateWish applies a sparse patch: only non-nil fields change, each
// re-validated under the same constraints as creation. The read, ownership
// check and write share one transaction; a wish deleted by a concurrent
// request surfaces as not-found.
func (s *WishService) UpdateWish(ownerID, wishID int64, patch models.WishPatch) (models.Wish, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return models.Wish{}, err
	}
	defer tx.Rollback()

	wish, err := getWishOwned(tx, ownerID, wishID)
	if err != nil {
		return models.Wish{}, err
	}

	// An empty patch writes nothing; updated_at moves only on an actual change.
	if !patch.Title.Set && !patch.Link.Set && !patch.PriceEstimate.Set &&
		!patch.Notes.Set && !patch.IsFavorite.Set {
		return wish, tx.Commit()
	}

	if patch.Title.Set {
		if !patch.Title.Valid {
			return models.Wish{}, apierr.Validation("title cannot be null")
		}
		if err := validateTitle(patch.Title.Value); err != nil {
			return models.Wish{}, err
		}
		wish.Title = patch.Title.Value
	}
	if patch.Link.Set {
		wish.Link = nil
		if patch.Link.Valid {
			if err := validateLink(&patch.Link.Value); err != nil {
				return models.Wish{}, err
			}
			wish.Link = &patch.Link.Value
		}
	}
	if patch.Notes.Set {
		wish.Notes = nil
		if patch.Notes.Valid {
			if err := validateNotes(&patch.Notes.Value); err != nil {
				return models.Wish{}, err
			}
			wish.Notes = &patch.Notes.Value
		}
	}
	if patch.IsFavorite.Set {
		if !patch.IsFavorite.Valid {
			return models.Wish{}, apierr.Validation("is_favorite cannot be null")
		}
		wish.IsFavorite = patch.IsFavorite.Value
	}
	cents := wish.PriceEstimate.Shift(2).IntPart()
	if patch.PriceEstimate.Set {
		if !patch.PriceEstimate.Valid {
			return models.Wish{}, apierr.Validation("price_estimate cannot be null")
		}
		cents, err = priceToCents(patch.PriceEstimate.Value)
		if err != nil {
			return models.Wish{}, err
		}
		wish.PriceEstimate = centsToPrice(cents)
	}

	wish.UpdatedAt = time.Now().UTC()
	res, err := tx.Exec(`
		UPDATE wishes SET title = ?, link = ?, price_cents = ?, notes = ?, is_favorite = ?, updated_at = ?
		WHERE id = ?`,
		wish.Title, wish.Link, cents, wish.Notes, wish.IsFavorite,
		database.FormatTime(wish.UpdatedAt), wishID,
	)
	if err != nil {
		return models.Wish{}, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return models.Wish{}, err
	}
	if affected == 0 {
		return models.Wish{}, apierr.WishNotFound()
	}

	if err := tx.Commit(); err != nil {
		return models.Wish{}, err
	}
	return wish, nil
}

// DeleteWish permanently removes a wish after the same existence and
// ownership checks. Repeating the call fails with not-found.
func (s *WishService) DeleteWish(ownerID, wishID int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := getWishOwned(tx, ownerID, wishID); err != nil {
		return err
	}

	res, err := tx.Exec("DELETE FROM wishes WHERE id = ?", wishID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return apierr.WishNotFound()
	}

	return tx.Commit()
}

// querier is the subset of *sql.DB / *sql.Tx the lookups need.
type querier interface {
	QueryRow(query string, args ...any) *sql.Row
}

// getWishOwned fetches a wish by id regardless of owner, then enforces
// ownership, so not-found and forbidden stay distinguishable.
func getWishOwned(q querier, ownerID, wishID int64) (models.Wish, error) {
	row := q.QueryRow(`
		SELECT id, title, link, price_cents, notes, is_favorite, owner_id, created_at, updated_at
		FROM wishes WHERE id = ?`, wishID)
	wish, err := scanWish(row)
	if err == sql.ErrNoRows {
		return models.Wish{}, apierr.WishNotFound()
	}
	if err != nil {
		return models.Wish{}, err
	}
	if wish.OwnerID != ownerID {
		return models.Wish{}, apierr.Forbidden("You do not own this wish")
	}
	return wish, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWish(row rowScanner) (models.Wish, error) {
	var wish models.Wish
	var cents int64
	var createdAt, updatedAt string
	err := row.Scan(&wish.ID, &wish.Title, &wish.Link, &cents, &wish.Notes,
		&wish.IsFavorite, &wish.OwnerID, &createdAt, &updatedAt)
	if err != nil {
		return models.Wish{}, err
	}
	wish.PriceEstimate = centsToPrice(cents)
	if wish.CreatedAt, err = database.ParseTime(createdAt); err != nil {
		return models.Wish{}, err
	}
	if wish.UpdatedAt, err = database.ParseTime(updatedAt); err != nil {
		return models.Wish{}, err
	}
	return wish, nil
}
