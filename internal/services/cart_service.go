package services

import (
	"encoding/json"
	"errors"

	"signcraft/internal/domain"
	"signcraft/internal/repos"
)

var ErrUnknownLineKind = errors.New("line type must be product or custom")

type CartService struct {
	Carts *repos.CartRepo
	Prods *repos.ProductRepo
}

func NewCartService(carts *repos.CartRepo, prods *repos.ProductRepo) *CartService {
	return &CartService{Carts: carts, Prods: prods}
}

type CartLineRequest struct {
	Kind      string   `json:"type"`
	ProductID string   `json:"product_id"`
	Name      string   `json:"name"`
	Size      string   `json:"size"`
	Material  string   `json:"material"`
	Quantity  int      `json:"quantity"`
	Comments  string   `json:"comments"`
	Images    []string `json:"images"` // previously uploaded /uploads/... paths
}

func (s *CartService) Add(sessionID string, req CartLineRequest) (string, error) {
	cartID, err := s.Carts.EnsureCart(sessionID)
	if err != nil {
		return "", err
	}

	in := repos.CartLineInput{
		Kind:     req.Kind,
		Size:     req.Size,
		Material: req.Material,
		Quantity: req.Quantity,
		Comments: req.Comments,
	}
	if in.Quantity < 1 {
		in.Quantity = 1
	}
	switch req.Kind {
	case domain.LineProduct:
		p, err := s.Prods.Get(req.ProductID)
		if err != nil {
			return "", err
		}
		in.ProductID = p.ID
		in.Name = p.Name
	case domain.LineCustom:
		if req.Name == "" {
			return "", errors.New("custom line needs a name")
		}
		in.Name = req.Name
	default:
		return "", ErrUnknownLineKind
	}

	if len(req.Images) > 0 {
		b, err := json.Marshal(req.Images)
		if err != nil {
			return "", err
		}
		in.ImagesJSON = string(b)
	}
	return s.Carts.AddLine(cartID, in)
}

func (s *CartService) Update(sessionID, lineID string, req CartLineRequest) error {
	cartID, err := s.Carts.EnsureCart(sessionID)
	if err != nil {
		return err
	}
	if req.Quantity < 1 {
		req.Quantity = 1
	}
	return s.Carts.UpdateLine(cartID, lineID, repos.CartLineInput{
		Size:     req.Size,
		Material: req.Material,
		Quantity: req.Quantity,
		Comments: req.Comments,
	})
}

func (s *CartService) Lines(sessionID string) ([]domain.CartLine, error) {
	cartID, err := s.Carts.EnsureCart(sessionID)
	if err != nil {
		return nil, err
	}
	return s.Carts.Lines(cartID)
}

func (s *CartService) Remove(sessionID, lineID string) error {
	cartID, err := s.Carts.EnsureCart(sessionID)
	if err != nil {
		return err
	}
	return s.Carts.RemoveLine(cartID, lineID)
}

func (s *CartService) Clear(sessionID string) error {
	cartID, err := s.Carts.EnsureCart(sessionID)
	if err != nil {
		return err
	}
	return s.Carts.Clear(cartID)
}

// LineImages decodes a stored line's attachment path list.
func LineImages(line domain.CartLine) []string {
	var paths []string
	if err := json.Unmarshal([]byte(line.ImagesJSON), &paths); err != nil {
		return nil
	}
	return paths
}

// ToSubmission maps stored cart lines onto an intake request.
func ToSubmission(lines []domain.CartLine, companyName, email, department, contact, delivery, comments string) Submission {
	items := make([]SubmissionItem, 0, len(lines))
	for _, l := range lines {
		items = append(items, SubmissionItem{
			Kind:      l.Kind,
			ProductID: l.ProductID.String,
			Name:      l.Name,
			Size:      l.Size.String,
			Quantity:  l.Quantity,
			Material:  l.Material.String,
			Comments:  l.Comments.String,
		})
	}
	return Submission{
		CompanyName: companyName,
		Email:       email,
		Department:  department,
		Contact:     contact,
		Delivery:    delivery,
		Comments:    comments,
		Items:       items,
	}
}
