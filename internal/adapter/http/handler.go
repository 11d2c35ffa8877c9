package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/neomorfeo/spacebuilder/internal/app"
	"github.com/neomorfeo/spacebuilder/internal/domain"
)

const timeLayout = "2006-01-02T15:04:05Z"

// SessionResponse is the API representation of a configurator session.
type SessionResponse struct {
	ID        string           `json:"id" doc:"Unique identifier"`
	Selection domain.Selection `json:"selection" doc:"Raw selection indices and flags"`
	View      domain.View      `json:"view" doc:"Render instructions for the storefront"`
	CanGoBack bool             `json:"can_go_back" doc:"Whether go back has a step to undo"`
	CreatedAt string           `json:"created_at" doc:"Creation timestamp (ISO 8601)"`
	UpdatedAt string           `json:"updated_at" doc:"Last update timestamp (ISO 8601)"`
}

func toSessionResponse(svc *app.SessionService, s domain.Session) SessionResponse {
	return SessionResponse{
		ID:        s.ID,
		Selection: s.Selection,
		View:      svc.View(s),
		CanGoBack: s.History.Len() > 0,
		CreatedAt: s.CreatedAt.Format(timeLayout),
		UpdatedAt: s.UpdatedAt.Format(timeLayout),
	}
}

// LineItemResponse is one product sent to the cart.
type LineItemResponse struct {
	Slot      string `json:"slot" doc:"Bundle position"`
	VariantID string `json:"variant_id" doc:"Storefront variant id"`
	Title     string `json:"title" doc:"Product title"`
	Quantity  int    `json:"quantity" doc:"Units added"`
	Price     int64  `json:"price" doc:"Unit price in minor currency units"`
	Included  bool   `json:"included" doc:"Bundled at no charge"`
}

func toLineItemResponses(items []domain.LineItem) []LineItemResponse {
	out := make([]LineItemResponse, len(items))
	for i, item := range items {
		out[i] = LineItemResponse{
			Slot:      string(item.Slot),
			VariantID: item.VariantID,
			Title:     item.Title,
			Quantity:  item.Quantity,
			Price:     int64(item.Price),
			Included:  item.Included,
		}
	}
	return out
}

// --- Catalog ---

type GetCatalogOutput struct {
	Body domain.Catalog
}

// --- Create / Get Session ---

type CreateSessionOutput struct {
	Body SessionResponse
}

type SessionIDInput struct {
	ID string `path:"id" doc:"Session ID"`
}

type SessionOutput struct {
	Body SessionResponse
}

// --- Actions ---

type ActionInput struct {
	ID   string `path:"id" doc:"Session ID"`
	Body struct {
		Action       string `json:"action" doc:"Shopper action" enum:"select_seating,select_variant,add_platform,skip_platform,continue_to_aroma,skip_aroma,select_aroma,select_aroma_variant,select_incense,skip_incense,continue_to_home,skip_home,select_home,select_home_variant,remove_platform,remove_aroma,remove_incense,remove_home"`
		ProductIndex *int   `json:"product_index,omitempty" doc:"Product index, required by the select actions that pick a product"`
		VariantIndex *int   `json:"variant_index,omitempty" doc:"Variant index, required by the variant and incense actions"`
	}
}

// --- Save Codes ---

type CodeOutput struct {
	Body struct {
		Code string `json:"code" doc:"Eight character save code"`
	}
}

type RestoreInput struct {
	ID   string `path:"id" doc:"Session ID"`
	Body struct {
		Code string `json:"code" minLength:"1" maxLength:"32" doc:"Save code to restore"`
	}
}

type SaveInput struct {
	ID   string `path:"id" doc:"Session ID"`
	Body struct {
		Email string `json:"email" format:"email" maxLength:"254" doc:"Address the save code is mailed to"`
	}
}

// --- Checkout ---

type CheckoutOutput struct {
	Body struct {
		RedirectURL string             `json:"redirect_url" doc:"Where to send the shopper next"`
		Failed      bool               `json:"failed" doc:"Whether an item could not be added"`
		Items       []LineItemResponse `json:"items" doc:"Items that reached the cart"`
	}
}

// --- Variant Images ---

type PreloadOutput struct {
	Body []domain.Preload
}

// Register adds all configurator API routes to the Huma API. images feeds
// the variant image preload endpoint.
func Register(api huma.API, svc *app.SessionService, images domain.VariantImages) {
	huma.Register(api, huma.Operation{
		OperationID: "get-catalog",
		Method:      http.MethodGet,
		Path:        "/api/v1/catalog",
		Summary:     "Get the product catalog",
		Tags:        []string{"Catalog"},
	}, func(_ context.Context, _ *struct{}) (*GetCatalogOutput, error) {
		return &GetCatalogOutput{Body: svc.Catalog()}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "create-session",
		Method:      http.MethodPost,
		Path:        "/api/v1/sessions",
		Summary:     "Start a configurator session",
		Tags:        []string{"Sessions"},
	}, func(ctx context.Context, _ *struct{}) (*CreateSessionOutput, error) {
		session, err := svc.Create(ctx)
		if err != nil {
			return nil, toHumaError(err)
		}
		return &CreateSessionOutput{Body: toSessionResponse(svc, session)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-session",
		Method:      http.MethodGet,
		Path:        "/api/v1/sessions/{id}",
		Summary:     "Get a session by ID",
		Tags:        []string{"Sessions"},
	}, func(ctx context.Context, input *SessionIDInput) (*SessionOutput, error) {
		session, err := svc.GetByID(ctx, input.ID)
		if err != nil {
			return nil, toHumaError(err)
		}
		return &SessionOutput{Body: toSessionResponse(svc, session)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "apply-action",
		Method:      http.MethodPost,
		Path:        "/api/v1/sessions/{id}/actions",
		Summary:     "Apply a shopper action",
		Tags:        []string{"Sessions"},
	}, func(ctx context.Context, input *ActionInput) (*SessionOutput, error) {
		action, err := toAction(input)
		if err != nil {
			return nil, err
		}
		session, err := svc.Apply(ctx, input.ID, action)
		if err != nil {
			return nil, toHumaError(err)
		}
		return &SessionOutput{Body: toSessionResponse(svc, session)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "go-back",
		Method:      http.MethodPost,
		Path:        "/api/v1/sessions/{id}/back",
		Summary:     "Undo the last forward step",
		Tags:        []string{"Sessions"},
	}, func(ctx context.Context, input *SessionIDInput) (*SessionOutput, error) {
		session, err := svc.GoBack(ctx, input.ID)
		if err != nil {
			return nil, toHumaError(err)
		}
		return &SessionOutput{Body: toSessionResponse(svc, session)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-save-code",
		Method:      http.MethodGet,
		Path:        "/api/v1/sessions/{id}/code",
		Summary:     "Get the save code for a session",
		Tags:        []string{"Save Codes"},
	}, func(ctx context.Context, input *SessionIDInput) (*CodeOutput, error) {
		code, err := svc.SaveCode(ctx, input.ID)
		if err != nil {
			return nil, toHumaError(err)
		}
		out := &CodeOutput{}
		out.Body.Code = code
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "restore-save-code",
		Method:      http.MethodPost,
		Path:        "/api/v1/sessions/{id}/restore",
		Summary:     "Restore a session from a save code",
		Tags:        []string{"Save Codes"},
	}, func(ctx context.Context, input *RestoreInput) (*SessionOutput, error) {
		session, err := svc.Restore(ctx, input.ID, input.Body.Code)
		if err != nil {
			return nil, toHumaError(err)
		}
		return &SessionOutput{Body: toSessionResponse(svc, session)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "save-session",
		Method:      http.MethodPost,
		Path:        "/api/v1/sessions/{id}/save",
		Summary:     "E-mail the save code for a session",
		Tags:        []string{"Save Codes"},
	}, func(ctx context.Context, input *SaveInput) (*CodeOutput, error) {
		code, err := svc.Save(ctx, input.ID, input.Body.Email)
		if err != nil {
			return nil, toHumaError(err)
		}
		out := &CodeOutput{}
		out.Body.Code = code
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "checkout",
		Method:      http.MethodPost,
		Path:        "/api/v1/sessions/{id}/checkout",
		Summary:     "Add the bundle to the storefront cart",
		Tags:        []string{"Checkout"},
	}, func(ctx context.Context, input *SessionIDInput) (*CheckoutOutput, error) {
		result, err := svc.Checkout(ctx, input.ID)
		if err != nil {
			return nil, toHumaError(err)
		}
		out := &CheckoutOutput{}
		out.Body.RedirectURL = result.RedirectURL
		out.Body.Failed = result.Failed
		out.Body.Items = toLineItemResponses(result.Added)
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "preload-variant-images",
		Method:      http.MethodGet,
		Path:        "/api/v1/variant-images/preload",
		Summary:     "List the first image of every variant option",
		Tags:        []string{"Catalog"},
	}, func(_ context.Context, _ *struct{}) (*PreloadOutput, error) {
		return &PreloadOutput{Body: images.PreloadSet()}, nil
	})
}

// toAction checks that every index the action reads was sent. A missing
// index is rejected before the session is loaded.
func toAction(input *ActionInput) (domain.Action, error) {
	action := domain.Action{Event: domain.Event(input.Body.Action)}

	if action.Event.ReadsProduct() {
		if input.Body.ProductIndex == nil {
			return domain.Action{}, huma.Error422UnprocessableEntity(
				fmt.Sprintf("product_index is required for %s", action.Event))
		}
		action.Product = *input.Body.ProductIndex
	}

	if action.Event.ReadsVariant() {
		if input.Body.VariantIndex == nil {
			return domain.Action{}, huma.Error422UnprocessableEntity(
				fmt.Sprintf("variant_index is required for %s", action.Event))
		}
		action.Variant = *input.Body.VariantIndex
	}

	return action, nil
}

// toHumaError translates domain errors to Huma HTTP errors.
func toHumaError(err error) error {
	if errors.Is(err, domain.ErrSessionNotFound) {
		return huma.Error404NotFound("session not found")
	}

	if errors.Is(err, domain.ErrCheckoutInFlight) {
		return huma.Error409Conflict(err.Error())
	}

	var codeErr *domain.SaveCodeError
	if errors.As(err, &codeErr) {
		return huma.Error422UnprocessableEntity(codeErr.Reason)
	}

	if domain.IsInvalidInput(err) {
		return huma.Error422UnprocessableEntity(err.Error())
	}

	return huma.Error500InternalServerError("internal server error")
}
