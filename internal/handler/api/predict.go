package api

import (
	"fmt"
	"net/http"
	"strings"

	"CoinSight/internal/domain/models"
	"CoinSight/internal/usecase"
	"CoinSight/pkg/config"
	xhttp "CoinSight/pkg/http"
	xlogger "CoinSight/pkg/logger"

	"github.com/labstack/echo/v4"
)

// PredictHandler exposes the prediction endpoint and the static plot assets.
type PredictHandler struct {
	logger *xlogger.Logger
	cfg    *config.Config
	uc     *usecase.PredictUseCase
}

func NewPredictHandler(logger *xlogger.Logger, cfg *config.Config, uc *usecase.PredictUseCase) *PredictHandler {
	return &PredictHandler{logger: logger, cfg: cfg, uc: uc}
}

func (h *PredictHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/predict", h.Predict)
	e.GET("/healthz", h.Health)
	e.Static("/plots", h.cfg.Storage.PlotsDir)
}

// Predict handles POST /predict. Input is validated before any file or
// network access: symbol membership first, then the model identifier.
func (h *PredictHandler) Predict(c echo.Context) error {
	req := &models.PredictRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, xhttp.FirstMessage(verr))
	}

	if !h.cfg.SupportsSymbol(req.Crypto) {
		return xhttp.BadRequestResponse(c, fmt.Sprintf(
			"crypto %q is not valid, choose one of: %s",
			req.Crypto, strings.Join(h.cfg.Symbols, ", "),
		))
	}

	modelID, err := req.ModelID.Int64()
	if err != nil || modelID < models.MinModelID || modelID > models.MaxModelID {
		return xhttp.BadRequestResponse(c, fmt.Sprintf(
			"model_id must be an integer between %d and %d",
			models.MinModelID, models.MaxModelID,
		))
	}

	baseURL := fmt.Sprintf("%s://%s", c.Scheme(), c.Request().Host)
	res, err := h.uc.Predict(c.Request().Context(), req.Crypto, int(modelID), baseURL)
	if err != nil {
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}

// Health is a liveness probe.
func (h *PredictHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
