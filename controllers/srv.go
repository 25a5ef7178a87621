// controllers/srv.go
package controllers

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"lost_and_found_tool/app"
	"lost_and_found_tool/db"
	"lost_and_found_tool/service"
	"lost_and_found_tool/session"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Srv struct {
	Repo     *db.Repo
	Users    *service.UserService
	Items    *service.ItemService
	Claims   *service.Coordinator
	Sessions *session.Store
	Log      *zap.SugaredLogger
	Cfg      app.Config
}

func GetSrv(a *app.App) *Srv {
	repo := db.NewRepo(a.DB)
	return &Srv{
		Repo:     repo,
		Users:    service.NewUserService(repo, a.Blobs, a.Log, a.Config.AdminEmails),
		Items:    service.NewItemService(repo, a.Blobs, a.Log),
		Claims:   service.NewCoordinator(repo, a.Blobs, a.Log),
		Sessions: a.Sessions,
		Log:      a.Log,
		Cfg:      a.Config,
	}
}

// --- helpers ---

// httpStatus maps the service error taxonomy onto HTTP codes.
func httpStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrDuplicateClaim),
		errors.Is(err, service.ErrAlreadyClaimed):
		return http.StatusConflict
	case errors.Is(err, service.ErrInvalidState),
		errors.Is(err, service.ErrValidation),
		errors.Is(err, service.ErrMissingProof),
		errors.Is(err, service.ErrNotClaimed),
		errors.Is(err, service.ErrInvalidDecision):
		return http.StatusBadRequest
	default:
		// ErrUpload, ErrConsistency and anything unexpected
		return http.StatusInternalServerError
	}
}

func fail(c *gin.Context, err error) {
	c.JSON(httpStatus(err), app.H{"error": err.Error()})
}

// readFormFile pulls an optional multipart file field into memory.
// Returns nil bytes when the field is absent.
func readFormFile(c *gin.Context, field string) ([]byte, string, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, "", nil
		}
		return nil, "", err
	}
	f, err := fh.Open()
	if err != nil {
		return nil, "", err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, "", err
	}
	return data, fh.Filename, nil
}

// 统一设置业务会话 Cookie
func (s *Srv) setAppCookie(c *gin.Context, sessionID string, maxAge time.Duration) {
	secure := strings.HasPrefix(s.Cfg.WebOrigin, "https://")
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     app.AppSessionCookie,
		Value:    sessionID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   secure,
		MaxAge:   int(maxAge / time.Second),
	})
}

// 登录成功：创建会话 + 写 Cookie
func (s *Srv) issueSession(c *gin.Context, userID string) error {
	id := uuid.NewString()
	if err := s.Sessions.Create(c.Request.Context(), id, userID); err != nil {
		return err
	}
	s.setAppCookie(c, id, s.Cfg.SessionTTL)
	return nil
}

func (s *Srv) clearSession(c *gin.Context) {
	if ck, err := c.Request.Cookie(app.AppSessionCookie); err == nil && ck.Value != "" {
		_ = s.Sessions.Delete(c.Request.Context(), ck.Value)
	}
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     app.AppSessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   strings.HasPrefix(s.Cfg.WebOrigin, "https://"),
	})
}
