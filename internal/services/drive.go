// Google Drive v3 implementation of photo listing and download
//
// Response types based on https://developers.google.com/drive/api/reference/rest/v3/files
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/desertthunder/studio/internal/models"
	"github.com/desertthunder/studio/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const (
	googleAuthURL  = "https://accounts.google.com/o/oauth2/auth"
	googleTokenURL = "https://oauth2.googleapis.com/token"
	driveBaseURL   = "https://www.googleapis.com/drive/v3"

	driveReadonlyScope = "https://www.googleapis.com/auth/drive.readonly"
	folderMimeType     = "application/vnd.google-apps.folder"
	drivePageSize      = 100
)

// DriveFile is a file resource as returned by files.list.
type DriveFile struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	MimeType      string `json:"mimeType"`
	Size          string `json:"size"` // int64 encoded as a string
	ThumbnailLink string `json:"thumbnailLink"`
	ModifiedTime  string `json:"modifiedTime"`
}

// DriveFileList is one page of files.list.
type DriveFileList struct {
	Files         []DriveFile `json:"files"`
	NextPageToken string      `json:"nextPageToken"`
}

type driveError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// DriveService reads client photos from Google Drive.
// Uses [oauth2] for authentication and paces every request through a [rate.Limiter].
type DriveService struct {
	config  *oauth2.Config
	baseURL string
	limiter *rate.Limiter

	mu         sync.RWMutex
	token      *oauth2.Token
	httpClient *http.Client
	onRefresh  func(*oauth2.Token)
}

// NewDriveService creates a Drive service from the Google credentials and Drive settings in config.
func NewDriveService(creds shared.GoogleConfig, drive shared.DriveConfig) (*DriveService, error) {
	if creds.ClientID == "" {
		return nil, fmt.Errorf("%w: missing google client_id", shared.ErrMissingCredentials)
	}
	if creds.ClientSecret == "" {
		return nil, fmt.Errorf("%w: missing google client_secret", shared.ErrMissingCredentials)
	}

	redirectURI := creds.RedirectURI
	if redirectURI == "" {
		redirectURI = "http://localhost:3000/callback"
	}

	baseURL := strings.TrimRight(drive.BaseURL, "/")
	if baseURL == "" {
		baseURL = driveBaseURL
	}

	limit := rate.Inf
	if drive.RequestsPerSecond > 0 {
		limit = rate.Limit(drive.RequestsPerSecond)
	}
	burst := drive.Burst
	if burst < 1 {
		burst = 1
	}

	s := &DriveService{
		config: &oauth2.Config{
			ClientID:     creds.ClientID,
			ClientSecret: creds.ClientSecret,
			RedirectURL:  redirectURI,
			Scopes:       []string{driveReadonlyScope},
			Endpoint: oauth2.Endpoint{
				AuthURL:  googleAuthURL,
				TokenURL: googleTokenURL,
			},
		},
		baseURL: baseURL,
		limiter: rate.NewLimiter(limit, burst),
	}

	if token := creds.Token(); token != nil {
		s.SetToken(context.Background(), token)
	}

	return s, nil
}

// OAuthConfig exposes the underlying OAuth2 configuration, e.g. to override endpoints.
func (s *DriveService) OAuthConfig() *oauth2.Config {
	return s.config
}

// AuthURL returns the Google consent URL. Offline access is requested so a refresh token is issued.
func (s *DriveService) AuthURL(state string) string {
	return s.config.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
}

// Exchange trades an authorization code for a token and starts using it.
func (s *DriveService) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := s.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to exchange auth code: %v", shared.ErrAuthFailed, err)
	}
	s.SetToken(ctx, token)
	return token, nil
}

// OnTokenRefresh registers fn to be called whenever the client obtains a new access token.
func (s *DriveService) OnTokenRefresh(fn func(*oauth2.Token)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onRefresh = fn
}

// SetToken installs token and rebuilds the authenticated HTTP client.
// ctx supplies the base [http.Client] via [oauth2.HTTPClient] when present.
func (s *DriveService) SetToken(ctx context.Context, token *oauth2.Token) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = token
	source := &notifyingSource{
		base: s.config.TokenSource(ctx, token),
		last: token.AccessToken,
		notify: func(t *oauth2.Token) {
			s.mu.RLock()
			fn := s.onRefresh
			s.mu.RUnlock()
			if fn != nil {
				fn(t)
			}
		},
	}
	s.httpClient = oauth2.NewClient(ctx, oauth2.ReuseTokenSource(token, source))
}

// Authenticated reports whether a token has been set.
func (s *DriveService) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != nil
}

// ListPhotos returns the image files directly inside folderID, following every page.
func (s *DriveService) ListPhotos(ctx context.Context, folderID string) ([]models.Photo, error) {
	if folderID == "" {
		return nil, fmt.Errorf("%w: folder ID", shared.ErrMissingArgument)
	}

	q := fmt.Sprintf("'%s' in parents and trashed = false and mimeType contains 'image/'", escapeQuery(folderID))
	files, err := s.listFiles(ctx, q)
	if err != nil {
		return nil, err
	}

	photos := make([]models.Photo, 0, len(files))
	for _, f := range files {
		if !strings.HasPrefix(f.MimeType, "image/") {
			continue
		}
		photos = append(photos, f.toPhoto())
	}
	return photos, nil
}

// ListFolders returns the folders directly inside parentID ("root" when empty).
func (s *DriveService) ListFolders(ctx context.Context, parentID string) ([]models.Folder, error) {
	if parentID == "" {
		parentID = "root"
	}

	q := fmt.Sprintf("'%s' in parents and trashed = false and mimeType = '%s'", escapeQuery(parentID), folderMimeType)
	files, err := s.listFiles(ctx, q)
	if err != nil {
		return nil, err
	}

	folders := make([]models.Folder, len(files))
	for i, f := range files {
		folders[i] = models.Folder{ID: f.ID, Name: f.Name}
	}
	return folders, nil
}

// Download streams the content of fileID into w and returns the number of bytes written.
func (s *DriveService) Download(ctx context.Context, fileID string, w io.Writer) (int64, error) {
	if fileID == "" {
		return 0, fmt.Errorf("%w: file ID", shared.ErrMissingArgument)
	}

	resp, err := s.get(ctx, "/files/"+url.PathEscape(fileID), url.Values{"alt": {"media"}})
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, fmt.Errorf("failed to read file %s: %w", fileID, err)
	}
	return n, nil
}

func (s *DriveService) listFiles(ctx context.Context, q string) ([]DriveFile, error) {
	var files []DriveFile
	pageToken := ""

	for {
		params := url.Values{
			"q":        {q},
			"fields":   {"nextPageToken,files(id,name,mimeType,size,thumbnailLink,modifiedTime)"},
			"pageSize": {strconv.Itoa(drivePageSize)},
			"orderBy":  {"name"},
		}
		if pageToken != "" {
			params.Set("pageToken", pageToken)
		}

		var page DriveFileList
		if err := s.doRequest(ctx, "/files", params, &page); err != nil {
			return nil, err
		}

		files = append(files, page.Files...)

		if page.NextPageToken == "" {
			break
		}
		pageToken = page.NextPageToken
	}

	return files, nil
}

// doRequest performs an authenticated GET and decodes the JSON body into result.
func (s *DriveService) doRequest(ctx context.Context, endpoint string, params url.Values, result any) error {
	resp, err := s.get(ctx, endpoint, params)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// get waits on the limiter, sends the request and maps error statuses to shared errors.
// The caller closes the body of a successful response.
func (s *DriveService) get(ctx context.Context, endpoint string, params url.Values) (*http.Response, error) {
	s.mu.RLock()
	client := s.httpClient
	s.mu.RUnlock()

	if client == nil {
		return nil, fmt.Errorf("%w: run `studio drive auth` first", shared.ErrNotAuthenticated)
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrTimeout, err)
	}

	apiURL := s.baseURL + endpoint
	if len(params) > 0 {
		apiURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}
	defer resp.Body.Close()

	var apiErr driveError
	message := http.StatusText(resp.StatusCode)
	if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error.Message != "" {
		message = apiErr.Error.Message
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, fmt.Errorf("%w: %s", shared.ErrTokenExpired, message)
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", shared.ErrFileNotFound, message)
	case resp.StatusCode == http.StatusTooManyRequests, resp.StatusCode >= 500:
		return nil, fmt.Errorf("%w: drive status %d: %s", shared.ErrServiceUnavailable, resp.StatusCode, message)
	default:
		return nil, fmt.Errorf("%w: drive status %d: %s", shared.ErrAPIRequest, resp.StatusCode, message)
	}
}

func (f DriveFile) toPhoto() models.Photo {
	photo := models.Photo{
		ID:            f.ID,
		Name:          f.Name,
		MimeType:      f.MimeType,
		ThumbnailLink: f.ThumbnailLink,
	}
	if size, err := strconv.ParseInt(f.Size, 10, 64); err == nil {
		photo.Size = size
	}
	if t, err := time.Parse(time.RFC3339, f.ModifiedTime); err == nil {
		photo.ModifiedTime = t
	}
	return photo
}

// escapeQuery escapes a value for use inside a single-quoted Drive query string.
func escapeQuery(v string) string {
	v = strings.ReplaceAll(v, `\`, `\\`)
	return strings.ReplaceAll(v, `'`, `\'`)
}

// notifyingSource reports tokens that differ from the last one it saw.
type notifyingSource struct {
	base   oauth2.TokenSource
	notify func(*oauth2.Token)

	mu   sync.Mutex
	last string
}

func (n *notifyingSource) Token() (*oauth2.Token, error) {
	token, err := n.base.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrTokenExpired, err)
	}

	n.mu.Lock()
	changed := token.AccessToken != n.last
	n.last = token.AccessToken
	n.mu.Unlock()

	if changed {
		n.notify(token)
	}
	return token, nil
}
