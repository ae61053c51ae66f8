package handlers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/revente/internal/domain/filter"
	"github.com/mamadbah2/revente/internal/domain/models"
	"github.com/mamadbah2/revente/internal/repository/drive"
	"github.com/mamadbah2/revente/internal/service/stock"
)

const (
	saleDateLayout = "2006-01-02"
	maxPhotoBytes  = 10 << 20
)

// StockService is the stock surface used by ArticleHandler.
type StockService interface {
	AddArticle(ctx context.Context, draft models.ArticleDraft, photo *stock.Photo) (models.Article, error)
	List(ctx context.Context, c filter.Criteria) (stock.Listing, error)
	Get(ctx context.Context, id int64) (models.Article, error)
	SimulateGain(ctx context.Context, id int64, price int64) (models.Gains, error)
}

// SalesService is the sales surface used by the handlers.
type SalesService interface {
	Accounts(ctx context.Context) ([]string, error)
	Sell(ctx context.Context, id int64, req models.SaleRequest) (models.Article, error)
}

// ArticleHandler serves intake, browsing and sale of articles.
type ArticleHandler struct {
	stock  StockService
	sales  SalesService
	logger *zap.Logger
}

// NewArticleHandler constructs the article HTTP adapter.
func NewArticleHandler(stockSvc StockService, salesSvc SalesService, logger *zap.Logger) *ArticleHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ArticleHandler{stock: stockSvc, sales: salesSvc, logger: logger}
}

type articleView struct {
	models.Article
	PhotoURL string `json:"photo_url,omitempty"`
}

func newArticleView(a models.Article) articleView {
	v := articleView{Article: a}
	if a.PhotoID != "" {
		v.PhotoURL = drive.ThumbnailURL(a.PhotoID, drive.DefaultThumbnailWidth)
	}
	return v
}

type simulateRequest struct {
	Price *int64 `json:"prix_vente" binding:"required"`
}

type saleRequest struct {
	Price   *int64 `json:"prix_vente" binding:"required"`
	Date    string `json:"date_vente" binding:"required"`
	Account string `json:"compte_vente" binding:"required"`
}

// Create handles the multipart intake form.
func (h *ArticleHandler) Create(c *gin.Context) {
	draft, err := parseDraft(c)
	if err != nil {
		respondError(c, h.logger, "invalid intake form", err)
		return
	}

	photo, err := readPhoto(c)
	if err != nil {
		respondError(c, h.logger, "invalid photo", err)
		return
	}

	article, err := h.stock.AddArticle(c.Request.Context(), draft, photo)
	if err != nil {
		respondError(c, h.logger, "failed adding article", err)
		return
	}

	c.JSON(http.StatusCreated, newArticleView(article))
}

// List returns the filtered stock. Unsold articles only unless unsold=false.
func (h *ArticleHandler) List(c *gin.Context) {
	unsold := true
	if raw := c.Query("unsold"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			respondError(c, h.logger, "invalid unsold flag", fmt.Errorf("%w: unsold must be a boolean", models.ErrInvalidInput))
			return
		}
		unsold = v
	}

	listing, err := h.stock.List(c.Request.Context(), filter.Criteria{
		Size:       c.Query("taille"),
		Collection: c.Query("collection"),
		Query:      c.Query("q"),
		UnsoldOnly: unsold,
	})
	if err != nil {
		respondError(c, h.logger, "failed listing articles", err)
		return
	}

	views := make([]articleView, 0, len(listing.Articles))
	for _, a := range listing.Articles {
		views = append(views, newArticleView(a))
	}
	c.JSON(http.StatusOK, gin.H{"articles": views, "options": listing.Options})
}

// Get returns one article.
func (h *ArticleHandler) Get(c *gin.Context) {
	id, ok := h.articleID(c)
	if !ok {
		return
	}

	article, err := h.stock.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, "failed loading article", err)
		return
	}
	c.JSON(http.StatusOK, newArticleView(article))
}

// Simulate returns the gains a sale at the given price would yield.
func (h *ArticleHandler) Simulate(c *gin.Context) {
	id, ok := h.articleID(c)
	if !ok {
		return
	}

	var req simulateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.logger, "invalid simulate payload", fmt.Errorf("%w: %s", models.ErrInvalidInput, err.Error()))
		return
	}

	g, err := h.stock.SimulateGain(c.Request.Context(), id, *req.Price)
	if err != nil {
		respondError(c, h.logger, "failed simulating gain", err)
		return
	}
	c.JSON(http.StatusOK, g)
}

// Sell records a sale.
func (h *ArticleHandler) Sell(c *gin.Context) {
	id, ok := h.articleID(c)
	if !ok {
		return
	}

	var req saleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.logger, "invalid sale payload", fmt.Errorf("%w: %s", models.ErrInvalidInput, err.Error()))
		return
	}

	date, err := time.Parse(saleDateLayout, strings.TrimSpace(req.Date))
	if err != nil {
		respondError(c, h.logger, "invalid sale date", fmt.Errorf("%w: date_vente must be YYYY-MM-DD", models.ErrInvalidInput))
		return
	}

	article, err := h.sales.Sell(c.Request.Context(), id, models.SaleRequest{
		Price:   *req.Price,
		Date:    date,
		Account: req.Account,
	})
	if err != nil {
		respondError(c, h.logger, "failed recording sale", err)
		return
	}
	c.JSON(http.StatusOK, newArticleView(article))
}

func (h *ArticleHandler) articleID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(c, h.logger, "invalid article id", fmt.Errorf("%w: id must be a positive integer", models.ErrInvalidInput))
		return 0, false
	}
	return id, true
}

func parseDraft(c *gin.Context) (models.ArticleDraft, error) {
	draft := models.ArticleDraft{
		Description: strings.TrimSpace(c.PostForm("description")),
		Size:        strings.TrimSpace(c.PostForm("taille")),
		Collection:  strings.TrimSpace(c.PostForm("collection")),
	}

	if raw := strings.TrimSpace(c.PostForm("prix_achat")); raw != "" {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return models.ArticleDraft{}, fmt.Errorf("%w: prix_achat must be an integer", models.ErrInvalidInput)
		}
		draft.PurchasePrice = &v
	}

	if raw := strings.TrimSpace(c.PostForm("estimation")); raw != "" {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return models.ArticleDraft{}, fmt.Errorf("%w: estimation must be an integer", models.ErrInvalidInput)
		}
		draft.Estimate = v
	}

	return draft, nil
}

func readPhoto(c *gin.Context) (*stock.Photo, error) {
	header, err := c.FormFile("photo")
	if err != nil {
		if err == http.ErrMissingFile {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %s", models.ErrInvalidInput, err.Error())
	}
	if header.Size > maxPhotoBytes {
		return nil, fmt.Errorf("%w: photo exceeds %d bytes", models.ErrInvalidInput, maxPhotoBytes)
	}

	f, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("open photo: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read photo: %w", err)
	}
	return &stock.Photo{Filename: header.Filename, Data: data}, nil
}
