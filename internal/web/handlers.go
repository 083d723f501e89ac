package web

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/russross/blackfriday/v2"

	"github.com/keywordpulse/keywordpulse/internal/ai"
	"github.com/keywordpulse/keywordpulse/internal/config"
	"github.com/keywordpulse/keywordpulse/internal/report"
	"github.com/keywordpulse/keywordpulse/internal/traffic"
	"github.com/keywordpulse/keywordpulse/internal/utils"
)

// RunHandler drives one analysis run per form submission: validate inputs,
// load, normalize, request the report, present.
type RunHandler struct {
	cfg *config.Global

	// newGenerator is a seam for tests; the default builds a live client
	// from the user-supplied credential.
	newGenerator func(apiKey string) report.Generator
}

// NewRunHandler creates a run handler bound to the given configuration.
func NewRunHandler(cfg *config.Global) *RunHandler {
	h := &RunHandler{cfg: cfg}
	h.newGenerator = func(apiKey string) report.Generator {
		httpClient := &http.Client{}
		if cfg.HTTPTimeoutSec > 0 {
			httpClient.Timeout = time.Duration(cfg.HTTPTimeoutSec) * time.Second
		}
		return report.ChatGenerator{
			Client:      ai.NewClient(apiKey, cfg.BaseURL, httpClient),
			Model:       cfg.DefaultModel,
			MaxTokens:   cfg.MaxTokens,
			Temperature: cfg.Temperature,
		}
	}
	return h
}

// Index renders the upload form.
func (h *RunHandler) Index(c fiber.Ctx) error {
	return c.Render("index", fiber.Map{
		"Title":         "KeywordPulse",
		"KeywordColumn": h.cfg.KeywordColumn,
		"VolumeColumn":  h.cfg.SearchVolumeColumn,
	})
}

// Analyze executes one full run. Validation failures re-render the form;
// every later failure aborts the run and shows only the error message.
func (h *RunHandler) Analyze(c fiber.Ctx) error {
	apiKey := strings.TrimSpace(c.FormValue("api_key"))
	productContext := strings.TrimSpace(c.FormValue("context"))
	fileHeader, fileErr := c.FormFile("file")

	// Input validation happens before any parsing is attempted.
	if msg := validateInputs(apiKey, productContext, fileErr); msg != "" {
		return c.Status(fiber.StatusBadRequest).Render("index", fiber.Map{
			"Title":         "KeywordPulse",
			"KeywordColumn": h.cfg.KeywordColumn,
			"VolumeColumn":  h.cfg.SearchVolumeColumn,
			"Error":         msg,
			"Context":       productContext,
		})
	}

	runID := uuid.NewString()[:8]

	f, err := fileHeader.Open()
	if err != nil {
		return h.runError(c, runID, fmt.Errorf("open upload: %w", err))
	}
	data, err := io.ReadAll(f)
	f.Close()
	if err != nil {
		return h.runError(c, runID, fmt.Errorf("read upload: %w", err))
	}
	log.Printf("[run %s] loading %s (%d bytes)", runID, fileHeader.Filename, len(data))

	raw, err := traffic.Load(data)
	if err != nil {
		return h.runError(c, runID, err)
	}
	table, err := traffic.Normalize(raw, traffic.Options{
		KeywordColumn: h.cfg.KeywordColumn,
		VolumeColumn:  h.cfg.SearchVolumeColumn,
		OnBadRows:     traffic.BadRowPolicy(h.cfg.OnBadRows),
	})
	if err != nil {
		return h.runError(c, runID, err)
	}
	if len(table.Rows) == 0 {
		return h.runError(c, runID, fmt.Errorf("no rows with a usable %s value", h.cfg.SearchVolumeColumn))
	}
	log.Printf("[run %s] normalized %d rows (%d dropped)", runID, len(table.Rows), table.Dropped)

	gen := h.newGenerator(apiKey)
	requester := report.NewRequester(report.GeneratorFunc(func(ctx context.Context, prompt string) (string, error) {
		log.Printf("[run %s] requesting report (~%d prompt tokens)", runID, utils.CountTokens(prompt))
		return gen.Generate(ctx, prompt)
	}), h.cfg.SampleSize)

	text, err := requester.Run(c.Context(), table, productContext)
	if err != nil {
		return h.runError(c, runID, err)
	}

	top := table.TopK(h.cfg.ChartTop)
	chart, err := volumeBarChart(top, h.cfg.SearchVolumeColumn)
	if err != nil {
		return h.runError(c, runID, fmt.Errorf("render chart: %w", err))
	}
	log.Printf("[run %s] done", runID)

	return c.Render("results", fiber.Map{
		"Title":         "分析结果",
		"Chart":         chart,
		"Top":           topRowsView(top),
		"KeywordColumn": h.cfg.KeywordColumn,
		"VolumeColumn":  h.cfg.SearchVolumeColumn,
		"Report":        template.HTML(blackfriday.Run([]byte(text))),
	})
}

// validateInputs returns a message for the first missing input, or "".
func validateInputs(apiKey, productContext string, fileErr error) string {
	switch {
	case apiKey == "":
		return "请输入 API Key"
	case fileErr != nil:
		return "请上传 CSV 文件"
	case productContext == "":
		return "请填写产品背景信息"
	}
	return ""
}

// runError aborts the run: no chart and no report are shown, only the
// error message, verbatim.
func (h *RunHandler) runError(c fiber.Ctx, runID string, err error) error {
	log.Printf("[run %s] failed: %v", runID, err)
	status := fiber.StatusInternalServerError

	var authErr *ai.AuthError
	var missingErr *traffic.MissingColumnError
	var unreadableErr *traffic.UnreadableFileError
	switch {
	case errors.As(err, &authErr):
		status = fiber.StatusUnauthorized
	case errors.As(err, &missingErr), errors.As(err, &unreadableErr):
		status = fiber.StatusUnprocessableEntity
	}
	return c.Status(status).Render("error", fiber.Map{
		"Title":   "Run failed",
		"Message": err.Error(),
	})
}

type rowView struct {
	Keyword string
	Volume  string
}

func topRowsView(rows []traffic.Row) []rowView {
	out := make([]rowView, len(rows))
	for i, r := range rows {
		out[i] = rowView{Keyword: r.Keyword, Volume: formatVolume(r.Volume)}
	}
	return out
}

// formatVolume renders a volume thousands-separated with no decimals.
func formatVolume(v float64) string {
	n := int64(v + 0.5)
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
