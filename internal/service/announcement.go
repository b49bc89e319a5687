package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kzl/storefront-api/internal/dto"
	"github.com/kzl/storefront-api/internal/model"
	"github.com/kzl/storefront-api/internal/repository"
)

var (
	ErrAnnouncementNotFound = errors.New("announcement not found")
	ErrAnnouncementEmpty    = errors.New("announcement needs a title or text")
)

type AnnouncementService struct {
	announcementRepo repository.AnnouncementRepository
	userRepo         repository.UserRepository
}

func NewAnnouncementService(announcementRepo repository.AnnouncementRepository, userRepo repository.UserRepository) *AnnouncementService {
	return &AnnouncementService{announcementRepo: announcementRepo, userRepo: userRepo}
}

func (s *AnnouncementService) List(ctx context.Context) ([]dto.AnnouncementResponse, error) {
	announcements, err := s.announcementRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list announcements: %w", err)
	}
	return toAnnouncementResponses(announcements), nil
}

func (s *AnnouncementService) Create(ctx context.Context, req dto.CreateAnnouncementRequest) (*dto.AnnouncementResponse, error) {
	if req.Title == "" && req.Text == "" {
		return nil, ErrAnnouncementEmpty
	}
	a := &model.Announcement{Title: req.Title, Text: req.Text, ImageURL: req.ImageURL}
	if err := s.announcementRepo.Create(ctx, a); err != nil {
		return nil, fmt.Errorf("create announcement: %w", err)
	}
	resp := toAnnouncementResponse(a)
	return &resp, nil
}

func (s *AnnouncementService) Update(ctx context.Context, id string, req dto.UpdateAnnouncementRequest) (*dto.AnnouncementResponse, error) {
	announcements, err := s.announcementRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list announcements: %w", err)
	}
	for i := range announcements {
		if announcements[i].ID != id {
			continue
		}
		a := announcements[i]
		if req.Title != nil {
			a.Title = *req.Title
		}
		if req.Text != nil {
			a.Text = *req.Text
		}
		if req.ImageURL != nil {
			a.ImageURL = *req.ImageURL
		}
		if err := s.announcementRepo.Update(ctx, &a); err != nil {
			return nil, fmt.Errorf("update announcement: %w", err)
		}
		resp := toAnnouncementResponse(&a)
		return &resp, nil
	}
	return nil, ErrAnnouncementNotFound
}

func (s *AnnouncementService) Delete(ctx context.Context, id string) error {
	if err := s.announcementRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete announcement: %w", err)
	}
	return nil
}

// Unseen returns announcements created after the user's last-seen cursor,
// newest first. A user who has never marked announcements read sees all of
// them.
func (s *AnnouncementService) Unseen(ctx context.Context, userID string) (*dto.UnseenAnnouncementsResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	since := time.Time{}
	if user.LastSeenAnnouncements != nil {
		since = *user.LastSeenAnnouncements
	}
	announcements, err := s.announcementRepo.ListSince(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("list unseen announcements: %w", err)
	}
	items := toAnnouncementResponses(announcements)
	return &dto.UnseenAnnouncementsResponse{Announcements: items, Count: len(items)}, nil
}

// MarkRead advances the user's last-seen cursor to now.
func (s *AnnouncementService) MarkRead(ctx context.Context, userID string) error {
	if err := s.userRepo.SetLastSeenAnnouncements(ctx, userID, time.Now().UTC()); err != nil {
		return fmt.Errorf("mark announcements read: %w", err)
	}
	return nil
}

func toAnnouncementResponse(a *model.Announcement) dto.AnnouncementResponse {
	return dto.AnnouncementResponse{
		ID:        a.ID,
		Title:     a.Title,
		Text:      a.Text,
		ImageURL:  a.ImageURL,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

func toAnnouncementResponses(announcements []model.Announcement) []dto.AnnouncementResponse {
	items := make([]dto.AnnouncementResponse, 0, len(announcements))
	for i := range announcements {
		items = append(items, toAnnouncementResponse(&announcements[i]))
	}
	return items
}
