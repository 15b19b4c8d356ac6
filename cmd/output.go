package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	statusadapter "github.com/bnema/tackcheck/internal/adapters/render/status"
	"github.com/bnema/tackcheck/internal/application"
	"github.com/bnema/tackcheck/internal/domain"
	"github.com/spf13/cobra"
)

type horseJSON struct {
	HorseID    string          `json:"horseId"`
	HorseName  string          `json:"horseName"`
	BarnActive bool            `json:"barnActive"`
	State      bool            `json:"state"`
	Lists      map[string]bool `json:"lists"`
}

type sessionJSON struct {
	SessionID   string      `json:"sessionId"`
	CreatedAt   time.Time   `json:"createdAt"`
	LastUpdated *time.Time  `json:"lastUpdated"`
	ExpiresAt   *time.Time  `json:"expiresAt"`
	Horses      []horseJSON `json:"horses"`
}

type stateJSON struct {
	Session       *sessionJSON          `json:"session"`
	ListsConfig   domain.ListsConfig    `json:"listsConfig"`
	Catalog       []domain.CatalogItem  `json:"catalog"`
	ListsStatus   domain.ResourceStatus `json:"listsStatus"`
	CatalogStatus domain.ResourceStatus `json:"catalogStatus"`
	StorageOK     bool                  `json:"storageOk"`
}

func toSessionJSON(session *domain.Session) *sessionJSON {
	if session == nil {
		return nil
	}

	out := &sessionJSON{
		SessionID:   string(session.ID),
		CreatedAt:   session.CreatedAt,
		LastUpdated: session.LastUpdated,
		ExpiresAt:   session.ExpiresAt,
		Horses:      make([]horseJSON, 0, len(session.Horses)),
	}
	for _, horse := range session.Horses {
		out.Horses = append(out.Horses, horseJSON(horse))
	}
	return out
}

func toStateJSON(state application.State) stateJSON {
	return stateJSON{
		Session:       toSessionJSON(state.Session),
		ListsConfig:   state.ListsConfig,
		Catalog:       state.Catalog.Items,
		ListsStatus:   state.ListsStatus,
		CatalogStatus: state.CatalogStatus,
		StorageOK:     state.StorageOK,
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeState(cmd *cobra.Command, app *app, state application.State, list string, asJSON bool) error {
	if asJSON {
		return writeJSON(cmd.OutOrStdout(), toStateJSON(state))
	}

	rendered, err := app.statusRenderer(state, statusadapter.RenderOptions{Now: app.now(), List: list})
	if err != nil {
		return fmt.Errorf("render status: %w", err)
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
	return err
}
