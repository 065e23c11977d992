package services

import (
	"encoding/json"
	"strings"

	"swapboard/internal/domain"
	"swapboard/internal/metrics"
	"swapboard/internal/repos"
	"swapboard/internal/rules"
	"swapboard/internal/validate"

	"github.com/google/uuid"
)

// AdInput is the full set of writable ad fields.
type AdInput struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"required"`
	ImageURL    string `json:"image_url" validate:"omitempty,url,max=500"`
	Category    string `json:"category" validate:"required,max=100"`
	Condition   string `json:"condition" validate:"required,oneof=new used broken"`
}

// AdPatch carries a partial update; nil fields are left unchanged.
// ImageURL distinguishes an absent key from an explicit null, which clears it.
type AdPatch struct {
	Title       *string      `json:"title"`
	Description *string      `json:"description"`
	ImageURL    NullableText `json:"image_url"`
	Category    *string      `json:"category"`
	Condition   *string      `json:"condition"`
}

// NullableText records whether a JSON key was sent and, if so, its value;
// a JSON null leaves Value nil with Set true.
type NullableText struct {
	Set   bool
	Value *string
}

func (n *NullableText) UnmarshalJSON(b []byte) error {
	n.Set = true
	if string(b) == "null" {
		n.Value = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	n.Value = &s
	return nil
}

func (in *AdInput) trim() {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.ImageURL = strings.TrimSpace(in.ImageURL)
	in.Category = strings.TrimSpace(in.Category)
	in.Condition = strings.TrimSpace(in.Condition)
}

func (in AdInput) apply(ad domain.Ad) domain.Ad {
	ad.Title = in.Title
	ad.Description = in.Description
	ad.Category = in.Category
	ad.Condition = domain.Condition(in.Condition)
	ad.ImageURL = nil
	if in.ImageURL != "" {
		u := in.ImageURL
		ad.ImageURL = &u
	}
	return ad
}

func inputOf(ad domain.Ad) AdInput {
	in := AdInput{
		Title:       ad.Title,
		Description: ad.Description,
		Category:    ad.Category,
		Condition:   string(ad.Condition),
	}
	if ad.ImageURL != nil {
		in.ImageURL = *ad.ImageURL
	}
	return in
}

type AdService struct {
	Ads     *repos.AdRepo
	Metrics *metrics.Metrics
}

func NewAdService(ads *repos.AdRepo, m *metrics.Metrics) *AdService {
	return &AdService{Ads: ads, Metrics: m}
}

// Create stores a new ad owned by actor.
func (s *AdService) Create(actor *domain.User, in AdInput) (domain.Ad, error) {
	if actor == nil {
		return domain.Ad{}, domain.ErrUnauthenticated
	}
	in.trim()
	if err := validate.Struct(in); err != nil {
		return domain.Ad{}, err
	}
	ad := in.apply(domain.Ad{ID: uuid.NewString(), OwnerID: actor.ID})
	created, err := s.Ads.Create(ad)
	if err != nil {
		return domain.Ad{}, err
	}
	s.Metrics.AdMutation("create")
	return created, nil
}

func (s *AdService) Get(id string) (domain.Ad, error) {
	return s.Ads.Get(id)
}

func (s *AdService) List(f domain.AdFilter) ([]domain.Ad, error) {
	return s.Ads.List(f)
}

// Update applies patch on top of the stored ad after the owner check. With
// replace set, absent fields are treated as blank, so every required field
// must be supplied.
func (s *AdService) Update(actor *domain.User, id string, patch AdPatch, replace bool) (domain.Ad, error) {
	if actor == nil {
		return domain.Ad{}, domain.ErrUnauthenticated
	}
	ad, err := s.Ads.Get(id)
	if err != nil {
		return domain.Ad{}, err
	}
	if err := rules.AuthorizeAdMutation(actor.ID, ad, rules.OpUpdate); err != nil {
		s.Metrics.Denied("ad")
		return domain.Ad{}, err
	}

	in := inputOf(ad)
	if replace {
		in = AdInput{}
	}
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&in.Title, patch.Title)
	set(&in.Description, patch.Description)
	if patch.ImageURL.Set {
		in.ImageURL = ""
		set(&in.ImageURL, patch.ImageURL.Value)
	}
	set(&in.Category, patch.Category)
	set(&in.Condition, patch.Condition)
	in.trim()
	if err := validate.Struct(in); err != nil {
		return domain.Ad{}, err
	}

	updated, err := s.Ads.Update(in.apply(ad))
	if err != nil {
		return domain.Ad{}, err
	}
	s.Metrics.AdMutation("update")
	return updated, nil
}

// Delete removes an owned ad and the proposals that reference it.
func (s *AdService) Delete(actor *domain.User, id string) error {
	if actor == nil {
		return domain.ErrUnauthenticated
	}
	ad, err := s.Ads.Get(id)
	if err != nil {
		return err
	}
	if err := rules.AuthorizeAdMutation(actor.ID, ad, rules.OpDelete); err != nil {
		s.Metrics.Denied("ad")
		return err
	}
	if err := s.Ads.Delete(id); err != nil {
		return err
	}
	s.Metrics.AdMutation("delete")
	return nil
}
