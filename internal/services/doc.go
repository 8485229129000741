// Package services provides the [Catalog] of print templates and the Google Drive [DriveService].
//
// # Catalog
//
// [CachedCatalog] implements [Catalog] over the SQLite repositories. Lookups are cached per
// print size and per ID for a configurable TTL ([shared.CatalogConfig]). Writers call
// [Catalog.Invalidate] after changing templates or packages.
//
// Returned shapes are copies, so callers may modify them freely.
//
// # Google Drive
//
// [DriveService] talks to the Drive v3 REST API with an [oauth2] client that refreshes expired
// tokens automatically. Refreshed tokens are reported through the callback passed to
// [DriveService.OnTokenRefresh] so the CLI can persist them to the config file.
//
// Requests are paced by a [rate.Limiter] built from [shared.DriveConfig].
//
// # Error Handling
//
// Services use typed errors from shared package:
//   - [shared.ErrNotAuthenticated] : no token set
//   - [shared.ErrTokenExpired] : Drive rejected the token, reauthorization needed
//   - [shared.ErrFileNotFound] : file or folder ID not found
//   - [shared.ErrServiceUnavailable] : rate limited or server error
//   - [shared.ErrAPIRequest] : any other failed request
//   - [shared.ErrNoTemplates] : a print size with no templates
package services
