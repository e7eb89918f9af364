package httpapi

import (
	"encoding/json"
	"time"

	"github.com/memoryengine/backend/internal/server/models"
	"github.com/memoryengine/backend/internal/server/services"
)

// OptionalString distinguishes an absent JSON field from an explicit null.
// Set is false when the field was not present at all.
type OptionalString struct {
	Set   bool
	Value *string
}

func (o *OptionalString) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Value = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	o.Value = &s
	return nil
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Username string `json:"username"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type updateProfileRequest struct {
	Name     *string `json:"name"`
	Username *string `json:"username"`
}

type adminCreateUserRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

type createPageRequest struct {
	Title    string  `json:"title"`
	Content  *string `json:"content"`
	ParentID *string `json:"parent_id"`
}

type updatePageRequest struct {
	Title    OptionalString `json:"title"`
	Content  OptionalString `json:"content"`
	ParentID OptionalString `json:"parent_id"`
}

// titleUpdate maps the wire field to the service's optional title. An
// explicit null is not "leave unchanged": it flows through as an empty
// title so the normal validation rejects it.
func (r updatePageRequest) titleUpdate() *string {
	if !r.Title.Set {
		return nil
	}
	if r.Title.Value == nil {
		empty := ""
		return &empty
	}
	return r.Title.Value
}

type sharePageRequest struct {
	SharedWithUserID string `json:"shared_with_user_id"`
	PermissionLevel  string `json:"permission_level"`
}

type createFlashcardRequest struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type updateFlashcardRequest struct {
	Question       *string    `json:"question"`
	Answer         *string    `json:"answer"`
	LastReviewedAt *time.Time `json:"last_reviewed_at"`
	NextReviewAt   *time.Time `json:"next_review_at"`
	ReviewCount    *int       `json:"review_count"`
	MasteryScore   *int       `json:"mastery_score"`
}

type userResponse struct {
	ID       string          `json:"id"`
	Email    string          `json:"email"`
	Name     *string         `json:"name"`
	Username *string         `json:"username"`
	Role     models.UserRole `json:"role"`
}

type authResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	TokenType    string       `json:"token_type"`
	ExpiresIn    int          `json:"expires_in"`
	User         userResponse `json:"user"`
}

type accessTokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

type pageResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	ParentID  *string   `json:"parent_id"`
	Title     string    `json:"title"`
	Content   *string   `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type pageTreeResponse struct {
	pageResponse
	IsShared   bool               `json:"is_shared"`
	Permission *string            `json:"permission"`
	OwnerEmail *string            `json:"owner_email"`
	Children   []pageTreeResponse `json:"children"`
}

type shareResponse struct {
	ID               string                 `json:"id"`
	PageID           string                 `json:"page_id"`
	OwnerID          string                 `json:"owner_id"`
	SharedWithUserID string                 `json:"shared_with_user_id"`
	PermissionLevel  models.PermissionLevel `json:"permission_level"`
	SharedWithEmail  *string                `json:"shared_with_email"`
	CreatedAt        time.Time              `json:"created_at"`
}

type flashcardResponse struct {
	ID             string     `json:"id"`
	PageID         string     `json:"page_id"`
	UserID         string     `json:"user_id"`
	Question       string     `json:"question"`
	Answer         string     `json:"answer"`
	LastReviewedAt *time.Time `json:"last_reviewed_at"`
	NextReviewAt   time.Time  `json:"next_review_at"`
	ReviewCount    int        `json:"review_count"`
	MasteryScore   int        `json:"mastery_score"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// nullable maps a model's empty string to JSON null.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func toUserResponse(u *models.User) userResponse {
	return userResponse{
		ID:       u.ID,
		Email:    u.Email,
		Name:     nullable(u.Name),
		Username: nullable(u.Username),
		Role:     u.Role,
	}
}

func toAuthResponse(u *models.User, pair *services.TokenPair) authResponse {
	return authResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    "bearer",
		ExpiresIn:    pair.ExpiresIn,
		User:         toUserResponse(u),
	}
}

func toPageResponse(p *models.Page) pageResponse {
	return pageResponse{
		ID:        p.ID,
		UserID:    p.UserID,
		ParentID:  p.ParentID,
		Title:     p.Title,
		Content:   p.Content,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func toPageTreeResponse(n *services.PageNode) pageTreeResponse {
	resp := pageTreeResponse{
		pageResponse: toPageResponse(&n.Page),
		IsShared:     n.IsShared,
		Children:     make([]pageTreeResponse, 0, len(n.Children)),
	}
	if n.IsShared {
		resp.Permission = nullable(string(n.Permission))
		resp.OwnerEmail = nullable(n.OwnerEmail)
	}
	for _, child := range n.Children {
		resp.Children = append(resp.Children, toPageTreeResponse(child))
	}
	return resp
}

func toForestResponse(nodes []*services.PageNode) []pageTreeResponse {
	out := make([]pageTreeResponse, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, toPageTreeResponse(n))
	}
	return out
}

func toShareResponse(s *models.PageShare, sharedWithEmail string) shareResponse {
	return shareResponse{
		ID:               s.ID,
		PageID:           s.PageID,
		OwnerID:          s.OwnerID,
		SharedWithUserID: s.SharedWithUserID,
		PermissionLevel:  s.PermissionLevel,
		SharedWithEmail:  nullable(sharedWithEmail),
		CreatedAt:        s.CreatedAt,
	}
}

func toFlashcardResponse(c *models.Flashcard) flashcardResponse {
	return flashcardResponse{
		ID:             c.ID,
		PageID:         c.PageID,
		UserID:         c.UserID,
		Question:       c.Question,
		Answer:         c.Answer,
		LastReviewedAt: c.LastReviewedAt,
		NextReviewAt:   c.NextReviewAt,
		ReviewCount:    c.ReviewCount,
		MasteryScore:   c.MasteryScore,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}
