// workers/member_sync_worker.go
package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/Mreoch1/Survivor-Fan-Game/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProfileFromAuthService matches the JSON the auth service returns for each
// pool member profile.
type ProfileFromAuthService struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"display_name"`
	Email       string    `json:"email"`
	Hidden      bool      `json:"hidden"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type profileChangesResponse struct {
	Profiles []ProfileFromAuthService `json:"profiles"`
}

// MemberSyncWorker mirrors profile records into the local pool_members table
// so the leaderboard never needs a cross-service call per request.
type MemberSyncWorker struct {
	db           *gorm.DB
	interval     time.Duration
	baseURL      string
	endpointPath string
	serviceToken string
	httpClient   *http.Client
}

func NewMemberSyncWorker(db *gorm.DB, authServiceBaseURL, endpointPath, serviceToken string) *MemberSyncWorker {
	return &MemberSyncWorker{
		db:           db,
		interval:     1 * time.Minute,
		baseURL:      authServiceBaseURL,
		endpointPath: endpointPath,
		serviceToken: serviceToken,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (w *MemberSyncWorker) Start(ctx context.Context) {
	log.Println("🔁 Starting Member Sync Worker (auth-service → pool_members)…")
	go w.run(ctx)
}

func (w *MemberSyncWorker) run(ctx context.Context) {
	// Backfill from the beginning of time on startup
	if err := w.syncBatch(ctx, time.Time{}); err != nil {
		log.Printf("⚠️ Initial member sync failed: %v", err)
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := w.syncBatch(ctx, w.getLastSyncTime()); err != nil {
				log.Printf("❌ Member sync batch failed: %v", err)
			}
		case <-ctx.Done():
			log.Println("⏹️ Member Sync Worker stopped")
			return
		}
	}
}

// getLastSyncTime finds the most recent UpdatedAt in the local mirror.
func (w *MemberSyncWorker) getLastSyncTime() time.Time {
	var lastTime time.Time
	err := w.db.Raw("SELECT MAX(updated_at) FROM pool_members").Scan(&lastTime).Error
	if err != nil || lastTime.IsZero() {
		return time.Unix(0, 0)
	}
	return lastTime
}

// syncBatch pulls profile changes since the given time and upserts them.
func (w *MemberSyncWorker) syncBatch(ctx context.Context, since time.Time) error {
	sinceStr := since.UTC().Format(time.RFC3339)

	base, err := url.Parse(w.baseURL)
	if err != nil {
		return fmt.Errorf("invalid auth service URL '%s': %w", w.baseURL, err)
	}
	endpointURL := base.JoinPath(w.endpointPath)
	q := endpointURL.Query()
	q.Set("since", sinceStr)
	endpointURL.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, "GET", endpointURL.String(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-Service-Token", w.serviceToken)

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP request to auth service failed: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("auth service non-200 response: %d — %s", resp.StatusCode, string(body))
	}

	var response profileChangesResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return fmt.Errorf("failed to decode auth service response: %w", err)
	}

	if len(response.Profiles) == 0 {
		log.Printf("[SYNC] ✅ No profile changes since %s", sinceStr)
		return nil
	}

	var upsertCount, errorCount int
	for _, profile := range response.Profiles {
		member := models.PoolMember{
			ID:             uuid.NewString(),
			ExternalUserID: profile.ID,
			DisplayName:    profile.DisplayName,
			Email:          profile.Email,
			Hidden:         profile.Hidden,
			CreatedAt:      profile.CreatedAt,
			UpdatedAt:      profile.UpdatedAt,
		}

		if err := w.db.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "external_user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"display_name", "email", "hidden", "updated_at",
			}),
		}).Create(&member).Error; err != nil {
			errorCount++
			log.Printf("[SYNC] ⚠️ Failed to upsert pool_member (external_id=%q): %v", profile.ID, err)
		} else {
			upsertCount++
		}
	}

	log.Printf("[SYNC] ✅ Synced %d profile(s) (%d upserted, %d errors)", len(response.Profiles), upsertCount, errorCount)
	return nil
}
