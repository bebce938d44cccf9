package internal

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Server exposes the engine, the company store and the analysis
// workflow over HTTP.
type Server struct {
	session  *Session
	store    *CompanyStore
	analyzer *Analyzer
	market   *FMPClient
	log      *zap.Logger
}

func NewServer(session *Session, store *CompanyStore, analyzer *Analyzer, market *FMPClient, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{session: session, store: store, analyzer: analyzer, market: market, log: log}
}

// Router builds the HTTP routes.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	api := r.Group("/api")
	api.GET("/health", s.health)

	rag := api.Group("/rag")
	rag.POST("/chat", s.chat)
	rag.POST("/update-context", s.updateContext)
	rag.GET("/context-info", s.contextInfo)
	rag.POST("/clear-conversation", s.clearConversation)
	rag.GET("/conversation-history", s.conversationHistory)

	api.GET("/companies", s.listCompanies)
	api.POST("/companies", s.createCompany)
	api.GET("/companies/:id", s.getCompany)
	api.PUT("/companies/:id", s.updateCompany)
	api.DELETE("/companies/:id", s.deleteCompany)

	api.POST("/compare", s.compare)
	api.POST("/find-comparables", s.findComparables)

	market := api.Group("/market")
	market.GET("/quote/:ticker", s.marketQuote)
	market.GET("/price/:ticker", s.marketPrice)
	market.GET("/quotes", s.marketQuotes)
	market.GET("/profile/:ticker", s.marketProfile)

	return r
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type chatRequest struct {
	Message string `json:"message" binding:"required"`
}

type chatResponse struct {
	Response            string             `json:"response"`
	ConversationHistory []ConversationTurn `json:"conversation_history"`
	ContextInfo         ContextInfo        `json:"context_info"`
}

func (s *Server) chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	response := s.session.Query(c.Request.Context(), req.Message)
	c.JSON(http.StatusOK, chatResponse{
		Response:            response,
		ConversationHistory: s.session.History(),
		ContextInfo:         s.session.ContextInfo(),
	})
}

type contextUpdateRequest struct {
	ComparisonData ComparisonContext `json:"comparison_data" binding:"required"`
}

func (s *Server) updateContext(c *gin.Context) {
	var req contextUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	info := s.session.SetContext(c.Request.Context(), req.ComparisonData)
	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"message":      "RAG context updated successfully",
		"context_info": info,
	})
}

func (s *Server) contextInfo(c *gin.Context) {
	c.JSON(http.StatusOK, s.session.ContextInfo())
}

func (s *Server) clearConversation(c *gin.Context) {
	s.session.ClearConversation()
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Conversation history cleared"})
}

func (s *Server) conversationHistory(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"conversation_history": s.session.History()})
}

func (s *Server) listCompanies(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.List())
}

func (s *Server) getCompany(c *gin.Context) {
	company, err := s.store.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "company not found"})
		return
	}
	c.JSON(http.StatusOK, company)
}

func (s *Server) createCompany(c *gin.Context) {
	var company Company
	if err := c.ShouldBindJSON(&company); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	created, err := s.store.Create(company)
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"detail": "company already exists"})
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (s *Server) updateCompany(c *gin.Context) {
	var company Company
	if err := c.ShouldBindJSON(&company); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	updated, err := s.store.Update(c.Param("id"), company)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "company not found"})
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (s *Server) deleteCompany(c *gin.Context) {
	if err := s.store.Delete(c.Param("id")); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "company not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

type compareRequest struct {
	CompanyIDs []string `json:"company_ids" binding:"required"`
}

func (s *Server) compare(c *gin.Context) {
	var req compareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	companies := make([]Company, 0, len(req.CompanyIDs))
	for _, id := range req.CompanyIDs {
		company, err := s.store.Get(id)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"detail": "company not found: " + id})
			return
		}
		companies = append(companies, company)
	}

	result, err := CompareCompanies(companies)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) marketQuote(c *gin.Context) {
	s.marketRecord(c, s.market.Quote)
}

func (s *Server) marketPrice(c *gin.Context) {
	s.marketRecord(c, s.market.Price)
}

func (s *Server) marketProfile(c *gin.Context) {
	s.marketRecord(c, s.market.Profile)
}

func (s *Server) marketRecord(c *gin.Context, fetch func(context.Context, string) (map[string]any, error)) {
	if s.market == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"detail": "market data not configured"})
		return
	}

	ticker := c.Param("ticker")
	record, err := fetch(c.Request.Context(), ticker)
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, ErrNotFound) {
			status = http.StatusNotFound
		} else if errors.Is(err, ErrNoAPIKey) {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{"detail": err.Error()})
		return
	}
	c.JSON(http.StatusOK, record)
}

func (s *Server) marketQuotes(c *gin.Context) {
	if s.market == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"detail": "market data not configured"})
		return
	}

	// Tickers arrive as repeated params or one comma-separated value.
	tickers := c.QueryArray("tickers")
	if len(tickers) == 1 && strings.Contains(tickers[0], ",") {
		parts := strings.Split(tickers[0], ",")
		tickers = tickers[:0]
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				tickers = append(tickers, p)
			}
		}
	}
	if len(tickers) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "tickers query parameter is required"})
		return
	}

	quotes, err := s.market.Quotes(c.Request.Context(), tickers)
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, ErrNoAPIKey) {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{"detail": err.Error()})
		return
	}
	if len(quotes) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"detail": "no quotes found for provided tickers"})
		return
	}
	c.JSON(http.StatusOK, quotes)
}

func (s *Server) findComparables(c *gin.Context) {
	var req ComparableSearch
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	cc, err := s.analyzer.BuildComparisonContext(c.Request.Context(), req)
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, ErrNotFound) {
			status = http.StatusNotFound
		} else if errors.Is(err, ErrNoProvider) {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{"detail": err.Error()})
		return
	}

	c.JSON(http.StatusOK, cc)
}
