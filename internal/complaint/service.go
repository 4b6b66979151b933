package complaint

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/societyos/society-backend/internal/notification"
	"github.com/societyos/society-backend/internal/pkg/apperror"
	"github.com/societyos/society-backend/internal/pkg/storage"
)

const (
	thumbnailMaxWidth  = 320
	thumbnailMaxHeight = 320
)

var allowedPhotoExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

type CreateRequest struct {
	UserID      string
	Category    string
	Subject     string
	Description string

	// Photo is optional. When set, PhotoFilename carries the original
	// name so the extension can be kept.
	Photo         io.Reader
	PhotoFilename string
}

type ResolveRequest struct {
	Note string

	// Photo documents the fix, optional.
	Photo         io.Reader
	PhotoFilename string
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Complaint, error)
	GetByID(ctx context.Context, id string) (*Complaint, error)
	List(ctx context.Context, filter Filter) ([]*Complaint, int, error)

	// Start moves an open complaint to in_progress.
	Start(ctx context.Context, id string) (*Complaint, error)

	// Resolve closes the complaint and notifies the complainant.
	Resolve(ctx context.Context, id, resolverID string, req ResolveRequest) (*Complaint, error)

	// Photo opens the stored image backing the requested variant.
	Photo(ctx context.Context, c *Complaint, variant PhotoVariant) (io.ReadCloser, error)
}

type service struct {
	repo       Repository
	store      storage.Storage
	images     *storage.ImageProcessor
	dispatcher notification.Pusher
}

func NewService(repo Repository, store storage.Storage, images *storage.ImageProcessor, dispatcher notification.Pusher) Service {
	return &service{
		repo:       repo,
		store:      store,
		images:     images,
		dispatcher: dispatcher,
	}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Complaint, error) {
	if !ValidCategory(req.Category) {
		return nil, ErrInvalidCategory
	}
	if strings.TrimSpace(req.Subject) == "" {
		return nil, ErrSubjectRequired
	}

	c := &Complaint{
		UserID:      req.UserID,
		Category:    req.Category,
		Subject:     strings.TrimSpace(req.Subject),
		Description: req.Description,
		Status:      StatusOpen,
	}

	if req.Photo != nil {
		photoPath, thumbPath, err := s.savePhoto(ctx, req.UserID, req.PhotoFilename, req.Photo, true)
		if err != nil {
			return nil, err
		}
		c.PhotoPath = &photoPath
		if thumbPath != "" {
			c.ThumbnailPath = &thumbPath
		}
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}

	s.dispatcher.PushToTopic(notification.TopicAdmins, notification.Message{
		Title: "New complaint",
		Body:  fmt.Sprintf("[%s] %s", c.Category, c.Subject),
		Data:  map[string]string{"complaint_id": c.ID},
	})

	return c, nil
}

// savePhoto stores the uploaded image and, when withThumbnail is set,
// a best-effort JPEG thumbnail next to it. A failed thumbnail never
// fails the upload.
func (s *service) savePhoto(ctx context.Context, userID, filename string, photo io.Reader, withThumbnail bool) (string, string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedPhotoExts[ext] {
		return "", "", apperror.BadRequest("unsupported photo type, use jpg or png")
	}

	content, err := io.ReadAll(photo)
	if err != nil {
		return "", "", fmt.Errorf("read photo failed: %w", err)
	}

	fileID := uuid.New().String()
	photoPath := fmt.Sprintf("complaints/%s/%s%s", userID, fileID, ext)

	if err := s.store.Save(ctx, photoPath, bytes.NewReader(content)); err != nil {
		return "", "", fmt.Errorf("save photo failed: %w", err)
	}
	if !withThumbnail {
		return photoPath, "", nil
	}

	thumbPath := fmt.Sprintf("complaints/%s/%s_thumb.jpg", userID, fileID)
	thumb, err := s.images.GenerateThumbnail(bytes.NewReader(content), thumbnailMaxWidth, thumbnailMaxHeight)
	if err != nil {
		log.Printf("thumbnail generation for %s failed: %v", photoPath, err)
		return photoPath, "", nil
	}
	if err := s.store.Save(ctx, thumbPath, thumb); err != nil {
		log.Printf("save thumbnail %s failed: %v", thumbPath, err)
		return photoPath, "", nil
	}

	return photoPath, thumbPath, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Complaint, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Complaint, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Start(ctx context.Context, id string) (*Complaint, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.Status == StatusResolved {
		return nil, ErrAlreadyResolved
	}

	updated, err := s.repo.UpdateStatusFrom(ctx, id, []Status{StatusOpen}, StatusInProgress)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, ErrInvalidStatus
	}
	c.Status = StatusInProgress

	s.dispatcher.PushToUsers([]string{c.UserID}, notification.Message{
		Title: "Complaint in progress",
		Body:  fmt.Sprintf("Your complaint %q is being worked on", c.Subject),
		Data:  map[string]string{"complaint_id": c.ID},
	})

	return c, nil
}

func (s *service) Resolve(ctx context.Context, id, resolverID string, req ResolveRequest) (*Complaint, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.Status == StatusResolved {
		return nil, ErrAlreadyResolved
	}

	var photoPath *string
	if req.Photo != nil {
		path, _, err := s.savePhoto(ctx, resolverID, req.PhotoFilename, req.Photo, false)
		if err != nil {
			return nil, err
		}
		photoPath = &path
	}

	updated, err := s.repo.Resolve(ctx, id, resolverID, req.Note, photoPath)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, ErrAlreadyResolved
	}

	s.dispatcher.PushToUsers([]string{c.UserID}, notification.Message{
		Title: "Complaint resolved",
		Body:  fmt.Sprintf("Your complaint %q has been resolved", c.Subject),
		Data:  map[string]string{"complaint_id": c.ID},
	})

	return s.repo.GetByID(ctx, id)
}

func (s *service) Photo(ctx context.Context, c *Complaint, variant PhotoVariant) (io.ReadCloser, error) {
	path := c.PhotoPathFor(variant)
	if path == nil {
		return nil, ErrPhotoNotFound
	}

	rc, err := s.store.Get(ctx, *path)
	if err != nil {
		return nil, ErrPhotoNotFound
	}
	return rc, nil
}
