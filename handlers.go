package charsheet

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// portraitResponse is returned by every portrait endpoint. Clients keep
// Portrait and send it back with preview and export requests.
type portraitResponse struct {
	Portrait string `json:"portrait"`
	DataURI  string `json:"data_uri"`
	Default  bool   `json:"default"`
}

func newPortraitResponse(p Portrait) portraitResponse {
	return portraitResponse{Portrait: p.Base64, DataURI: p.DataURI(), Default: p.IsDefault()}
}

type selectionResponse struct {
	Front    bool   `json:"front"`
	Back     bool   `json:"back"`
	Name     string `json:"name"`
	FileName string `json:"file_name"`
}

func newSelectionResponse(sel Selection) selectionResponse {
	return selectionResponse{
		Front:    sel.IncludeFront,
		Back:     sel.IncludeBack,
		Name:     sel.FileName,
		FileName: ResolveFileBaseName(sel.FileName),
	}
}

// exportForm carries the free-text fields of preview and export requests.
type exportForm struct {
	Portrait string `validate:"max=1500000"`
	Name     string `validate:"max=128"`
}

func handleHealth(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

func (a *App) handleGallery(c echo.Context) error {
	return c.JSON(http.StatusOK, a.Gallery.Entries())
}

func (a *App) handleUploadPortrait(c echo.Context) error {
	if !a.limiter.Allow(c.RealIP()) {
		return echo.NewHTTPError(http.StatusTooManyRequests, "Too many requests. Try again later.")
	}
	file, err := c.FormFile("image")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "No image file provided")
	}
	if file.Size > MaxPortraitBytes {
		err := fmt.Errorf("%w: %d bytes, limit %d", ErrImageTooLarge, file.Size, MaxPortraitBytes)
		a.metrics.observeIngest("upload", err)
		return err
	}
	src, err := file.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	p, err := IngestReader(src)
	a.metrics.observeIngest("upload", err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newPortraitResponse(p))
}

func handleDefaultPortrait(c echo.Context) error {
	return c.JSON(http.StatusOK, newPortraitResponse(Clear()))
}

func (a *App) handleGalleryPortrait(c echo.Context) error {
	key, err := url.PathUnescape(c.Param("key"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid key")
	}
	p, err := a.Gallery.Portrait(c.Request().Context(), key)
	a.metrics.observeIngest("gallery", err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newPortraitResponse(p))
}

func (a *App) handleGetSelection(c echo.Context) error {
	return c.JSON(http.StatusOK, newSelectionResponse(loadSelection(c)))
}

func (a *App) handleSaveSelection(c echo.Context) error {
	sel, _, err := a.selectionFromForm(c)
	if err != nil {
		return err
	}
	if err := saveSelection(c, sel); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newSelectionResponse(sel))
}

func (a *App) handlePreview(c echo.Context) error {
	side := Side(c.Param("side"))
	if side != Front && side != Back {
		return echo.NewHTTPError(http.StatusNotFound, "Unknown page")
	}
	form := exportForm{Portrait: c.FormValue("portrait")}
	if err := c.Validate(&form); err != nil {
		return err
	}
	p, err := ParsePortrait(form.Portrait)
	if err != nil {
		return err
	}
	page := ComposeBack(a.Templates.Back)
	if side == Front {
		page = ComposeFront(a.Templates.Front, p)
	}
	return RenderStatus(c, http.StatusOK, SVGContentType, PageComponent(page))
}

func (a *App) handleExport(c echo.Context) error {
	if !a.limiter.Allow(c.RealIP()) {
		return echo.NewHTTPError(http.StatusTooManyRequests, "Too many requests. Try again later.")
	}
	sel, form, err := a.selectionFromForm(c)
	if err != nil {
		return err
	}
	p, err := ParsePortrait(form.Portrait)
	if err != nil {
		return err
	}

	artifact, err := Build(a.Templates, p, sel)
	a.metrics.observeExport(artifact, err)
	if err != nil {
		return err
	}
	a.Logger.Debug("export built",
		zap.String("file", artifact.Name),
		zap.Int("bytes", len(artifact.Data)),
		zap.Bool("default_portrait", p.IsDefault()),
	)
	return ResponseSaver{W: c.Response()}.Save(c.Request().Context(), artifact)
}

// selectionFromForm overlays the submitted front, back and name fields on
// the selection remembered in the cookie session.
func (a *App) selectionFromForm(c echo.Context) (Selection, exportForm, error) {
	params, err := c.FormParams()
	if err != nil {
		return Selection{}, exportForm{}, echo.NewHTTPError(http.StatusBadRequest, "Invalid form")
	}
	sel := loadSelection(c)
	if params.Has("front") {
		if sel.IncludeFront, err = parseFlag(params.Get("front")); err != nil {
			return Selection{}, exportForm{}, echo.NewHTTPError(http.StatusBadRequest, "Invalid front flag")
		}
	}
	if params.Has("back") {
		if sel.IncludeBack, err = parseFlag(params.Get("back")); err != nil {
			return Selection{}, exportForm{}, echo.NewHTTPError(http.StatusBadRequest, "Invalid back flag")
		}
	}
	if params.Has("name") {
		sel.FileName = params.Get("name")
	}
	form := exportForm{Portrait: params.Get("portrait"), Name: sel.FileName}
	if err := c.Validate(&form); err != nil {
		return Selection{}, exportForm{}, err
	}
	return sel, form, nil
}

// parseFlag accepts strconv booleans and the HTML checkbox values.
func parseFlag(v string) (bool, error) {
	switch v {
	case "on", "yes":
		return true, nil
	case "off", "no", "":
		return false, nil
	}
	return strconv.ParseBool(v)
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	he := toHTTPError(err)
	if he.Code >= 500 {
		a.Logger.Error("server error", zap.String("uri", c.Request().RequestURI), zap.Error(err))
	}
	a.Echo.DefaultHTTPErrorHandler(he, c)
}

// toHTTPError maps pipeline errors to client-facing statuses.
func toHTTPError(err error) *echo.HTTPError {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he
	}
	switch {
	case errors.Is(err, ErrImageTooLarge):
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge, err.Error())
	case errors.Is(err, ErrUnsupportedImage):
		return echo.NewHTTPError(http.StatusUnsupportedMediaType, err.Error())
	case errors.Is(err, ErrInvalidSelection):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrUnknownPortrait):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrTemplateLoad):
		return echo.NewHTTPError(http.StatusServiceUnavailable, "Templates unavailable")
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError)).SetInternal(err)
	}
}
