package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sesi/membership/internal/app/models"
	"github.com/sesi/membership/internal/pkg/apperrors"
)

var albumColumns = []string{"a.id", "a.title", "a.description", "a.event_date", "a.location", "a.category",
	"a.cover_image", "a.is_published",
	"(SELECT COUNT(*) FROM gallery_photos p WHERE p.album_id = a.id) AS photo_count",
	"a.created_at"}

var photoColumns = []string{"id", "album_id", "title", "description", "image_url", "display_order", "uploaded_at"}

var photoReturning = strings.Join(photoColumns, ", ")

// GalleryRepository handles albums and photos
type GalleryRepository struct {
	db *pgxpool.Pool
}

// NewGalleryRepository creates a new gallery repository
func NewGalleryRepository(db *pgxpool.Pool) *GalleryRepository {
	return &GalleryRepository{db: db}
}

func scanAlbum(row pgx.Row) (*models.GalleryAlbum, error) {
	var a models.GalleryAlbum
	if err := row.Scan(&a.ID, &a.Title, &a.Description, &a.EventDate, &a.Location, &a.Category,
		&a.CoverImage, &a.IsPublished, &a.PhotoCount, &a.CreatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}

func scanPhoto(row pgx.Row) (*models.GalleryPhoto, error) {
	var p models.GalleryPhoto
	if err := row.Scan(&p.ID, &p.AlbumID, &p.Title, &p.Description, &p.ImageURL, &p.DisplayOrder, &p.UploadedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

func collectPhotos(rows pgx.Rows) ([]*models.GalleryPhoto, error) {
	defer rows.Close()
	items := make([]*models.GalleryPhoto, 0)
	for rows.Next() {
		p, err := scanPhoto(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

// CreateAlbum inserts an album
func (r *GalleryRepository) CreateAlbum(ctx context.Context, a *models.GalleryAlbum) error {
	sql, args, err := psql().Insert("gallery_albums").
		Columns("id", "title", "description", "event_date", "location", "category", "cover_image", "is_published", "created_at").
		Values(a.ID, a.Title, a.Description, a.EventDate, a.Location, a.Category, a.CoverImage, a.IsPublished, a.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("error building insert album query: %w", err)
	}
	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error inserting album: %w", err)
	}
	return nil
}

// GetAlbum retrieves an album with its photo count
func (r *GalleryRepository) GetAlbum(ctx context.Context, id string) (*models.GalleryAlbum, error) {
	sql, args, err := psql().Select(albumColumns...).From("gallery_albums a").Where(squirrel.Eq{"a.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building get album query: %w", err)
	}
	a, err := scanAlbum(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrAlbumNotFound
		}
		return nil, fmt.Errorf("error retrieving album: %w", err)
	}
	return a, nil
}

// ListAlbums returns albums newest first
func (r *GalleryRepository) ListAlbums(ctx context.Context, f models.AlbumFilter) ([]*models.GalleryAlbum, error) {
	q := psql().Select(albumColumns...).From("gallery_albums a").OrderBy("a.created_at DESC")
	if f.PublishedOnly {
		q = q.Where(squirrel.Eq{"a.is_published": true})
	}
	if f.Category != "" {
		q = q.Where(squirrel.Eq{"a.category": f.Category})
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building list albums query: %w", err)
	}
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing albums: %w", err)
	}
	defer rows.Close()

	items := make([]*models.GalleryAlbum, 0)
	for rows.Next() {
		a, err := scanAlbum(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	return items, rows.Err()
}

// UpdateAlbum replaces the album's editable fields
func (r *GalleryRepository) UpdateAlbum(ctx context.Context, a *models.GalleryAlbum) error {
	sql, args, err := psql().Update("gallery_albums").
		SetMap(map[string]interface{}{
			"title":        a.Title,
			"description":  a.Description,
			"event_date":   a.EventDate,
			"location":     a.Location,
			"category":     a.Category,
			"cover_image":  a.CoverImage,
			"is_published": a.IsPublished,
		}).
		Where(squirrel.Eq{"id": a.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("error building update album query: %w", err)
	}
	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating album: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrAlbumNotFound
	}
	return nil
}

// DeleteAlbum removes the album and returns the photos that went with it
func (r *GalleryRepository) DeleteAlbum(ctx context.Context, id string) ([]*models.GalleryPhoto, error) {
	var removed []*models.GalleryPhoto
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, `DELETE FROM gallery_photos WHERE album_id = $1 RETURNING `+photoReturning, id)
		if err != nil {
			return fmt.Errorf("error deleting album photos: %w", err)
		}
		if removed, err = collectPhotos(rows); err != nil {
			return fmt.Errorf("error reading deleted photos: %w", err)
		}

		tag, err := tx.Exec(ctx, `DELETE FROM gallery_albums WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("error deleting album: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return apperrors.ErrAlbumNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return removed, nil
}

// CountAlbums counts albums
func (r *GalleryRepository) CountAlbums(ctx context.Context) (int64, error) {
	return countQuery(ctx, r.db, psql().Select("COUNT(*)").From("gallery_albums"))
}

// AddPhotos appends photos under a row lock on the album so concurrent
// uploads get distinct display orders
func (r *GalleryRepository) AddPhotos(ctx context.Context, albumID string, photos []*models.GalleryPhoto) error {
	if len(photos) == 0 {
		return nil
	}
	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		var cover *string
		err := tx.QueryRow(ctx, `SELECT cover_image FROM gallery_albums WHERE id = $1 FOR UPDATE`, albumID).Scan(&cover)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.ErrAlbumNotFound
			}
			return fmt.Errorf("error locking album: %w", err)
		}

		var next int
		if err := tx.QueryRow(ctx,
			`SELECT COALESCE(MAX(display_order) + 1, 0) FROM gallery_photos WHERE album_id = $1`, albumID).Scan(&next); err != nil {
			return fmt.Errorf("error reading photo order: %w", err)
		}

		b := psql().Insert("gallery_photos").Columns(photoColumns...)
		for i, p := range photos {
			p.AlbumID = albumID
			p.DisplayOrder = next + i
			b = b.Values(p.ID, p.AlbumID, p.Title, p.Description, p.ImageURL, p.DisplayOrder, p.UploadedAt)
		}
		sql, args, err := b.ToSql()
		if err != nil {
			return fmt.Errorf("error building insert photos query: %w", err)
		}
		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			return fmt.Errorf("error inserting photos: %w", err)
		}

		if cover == nil {
			if _, err := tx.Exec(ctx, `UPDATE gallery_albums SET cover_image = $2 WHERE id = $1`, albumID, photos[0].ImageURL); err != nil {
				return fmt.Errorf("error setting album cover: %w", err)
			}
		}
		return nil
	})
}

// ListPhotos returns an album's photos in display order
func (r *GalleryRepository) ListPhotos(ctx context.Context, albumID string) ([]*models.GalleryPhoto, error) {
	sql, args, err := psql().Select(photoColumns...).From("gallery_photos").
		Where(squirrel.Eq{"album_id": albumID}).
		OrderBy("display_order", "uploaded_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building list photos query: %w", err)
	}
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing photos: %w", err)
	}
	return collectPhotos(rows)
}

// DeletePhoto removes one photo. An album whose cover was that photo falls
// back to its first remaining photo.
func (r *GalleryRepository) DeletePhoto(ctx context.Context, albumID, photoID string) (*models.GalleryPhoto, error) {
	var removed *models.GalleryPhoto
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		p, err := scanPhoto(tx.QueryRow(ctx,
			`DELETE FROM gallery_photos WHERE id = $1 AND album_id = $2 RETURNING `+photoReturning, photoID, albumID))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.ErrPhotoNotFound
			}
			return fmt.Errorf("error deleting photo: %w", err)
		}
		removed = p

		_, err = tx.Exec(ctx, `
UPDATE gallery_albums SET cover_image = (
	SELECT image_url FROM gallery_photos WHERE album_id = $1 ORDER BY display_order LIMIT 1
) WHERE id = $1 AND cover_image = $2`, albumID, p.ImageURL)
		if err != nil {
			return fmt.Errorf("error resetting album cover: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return removed, nil
}
