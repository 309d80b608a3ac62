package httpserver

import (
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	cartsvc "restaurant-pos/internal/service/cart"
	taxsvc "restaurant-pos/internal/service/tax"
)

type handlers struct {
	deps   Deps
	logger *log.Logger
}

func (h *handlers) listCategories(c *gin.Context) {
	r := restaurantFrom(c)
	cats, err := h.deps.CatalogSvc.ListCategories(c.Request.Context(), r.ID)
	if err != nil {
		respondError(c, h.logger, "list categories", err)
		return
	}
	c.JSON(http.StatusOK, newList(cats))
}

func (h *handlers) listProducts(c *gin.Context) {
	r := restaurantFrom(c)
	products, err := h.deps.CatalogSvc.ListProducts(c.Request.Context(), r.ID)
	if err != nil {
		respondError(c, h.logger, "list products", err)
		return
	}
	category := strings.TrimSpace(c.Query("category"))
	views := make([]productView, 0, len(products))
	for _, p := range products {
		if category != "" && p.CategoryID != category {
			continue
		}
		views = append(views, toProductView(p))
	}
	c.JSON(http.StatusOK, newList(views))
}

func (h *handlers) getProduct(c *gin.Context) {
	r := restaurantFrom(c)
	p, err := h.deps.CatalogSvc.GetProduct(c.Request.Context(), r.ID, c.Param("id"))
	if err != nil {
		respondError(c, h.logger, "get product", err)
		return
	}
	c.JSON(http.StatusOK, toProductView(*p))
}

func (h *handlers) listTaxRules(c *gin.Context) {
	r := restaurantFrom(c)
	includeInactive, _ := strconv.ParseBool(c.Query("includeInactive"))
	rules, err := h.deps.TaxSvc.List(c.Request.Context(), r.ID, includeInactive)
	if err != nil {
		respondError(c, h.logger, "list tax rules", err)
		return
	}
	c.JSON(http.StatusOK, newList(rules))
}

func (h *handlers) getTaxRule(c *gin.Context) {
	r := restaurantFrom(c)
	rule, err := h.deps.TaxSvc.Get(c.Request.Context(), r.ID, c.Param("id"))
	if err != nil {
		respondError(c, h.logger, "get tax rule", err)
		return
	}
	c.JSON(http.StatusOK, rule)
}

func (h *handlers) createTaxRule(c *gin.Context) {
	var req taxRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid body")
		return
	}
	r := restaurantFrom(c)
	rule, err := h.deps.TaxSvc.Create(c.Request.Context(), r.ID, req.toDomain())
	if err != nil {
		respondError(c, h.logger, "create tax rule", err)
		return
	}
	c.JSON(http.StatusCreated, rule)
}

func (h *handlers) updateTaxRule(c *gin.Context) {
	var req taxRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid body")
		return
	}
	r := restaurantFrom(c)
	rule, err := h.deps.TaxSvc.Update(c.Request.Context(), r.ID, c.Param("id"), req.toDomain())
	if err != nil {
		respondError(c, h.logger, "update tax rule", err)
		return
	}
	c.JSON(http.StatusOK, rule)
}

func (h *handlers) deactivateTaxRule(c *gin.Context) {
	r := restaurantFrom(c)
	rule, err := h.deps.TaxSvc.Deactivate(c.Request.Context(), r.ID, c.Param("id"))
	if err != nil {
		respondError(c, h.logger, "deactivate tax rule", err)
		return
	}
	c.JSON(http.StatusOK, rule)
}

func (h *handlers) previewTaxes(c *gin.Context) {
	var req taxsvc.PreviewInput
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid body")
		return
	}
	r := restaurantFrom(c)
	res, err := h.deps.TaxSvc.Preview(c.Request.Context(), r.ID, req)
	if err != nil {
		respondError(c, h.logger, "preview taxes", err)
		return
	}
	c.JSON(http.StatusOK, toTaxPreviewView(req.Amount, res))
}

type sessionRequest struct {
	TableNumber string `json:"tableNumber"`
}

func (h *handlers) issueSession(c *gin.Context) {
	var req sessionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			writeError(c, http.StatusBadRequest, "invalid body")
			return
		}
	}
	r := restaurantFrom(c)
	sess, err := h.deps.SessionSvc.Issue(c.Request.Context(), r.ID, req.TableNumber)
	if err != nil {
		respondError(c, h.logger, "issue session", err)
		return
	}
	c.JSON(http.StatusCreated, sessionView{
		Token:       sess.Token,
		SessionID:   sess.SessionID,
		TableNumber: sess.TableNumber,
		ExpiresIn:   h.deps.SessionSvc.TTLSeconds(),
	})
}

func (h *handlers) createCart(c *gin.Context) {
	var req cartsvc.CreateInput
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			writeError(c, http.StatusBadRequest, "invalid body")
			return
		}
	}
	r := restaurantFrom(c)
	sess := sessionFrom(c)
	view, err := h.deps.CartSvc.Create(c.Request.Context(), r, sess.SessionID, sess.TableNumber, req)
	if err != nil {
		respondError(c, h.logger, "create cart", err)
		return
	}
	c.JSON(http.StatusCreated, toCartView(view))
}

func (h *handlers) getCart(c *gin.Context) {
	r := restaurantFrom(c)
	sess := sessionFrom(c)
	view, err := h.deps.CartSvc.Get(c.Request.Context(), r, sess.SessionID, c.Param("id"))
	if err != nil {
		respondError(c, h.logger, "get cart", err)
		return
	}
	c.JSON(http.StatusOK, toCartView(view))
}

func (h *handlers) updateCart(c *gin.Context) {
	var req cartsvc.UpdateInput
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid body")
		return
	}
	r := restaurantFrom(c)
	sess := sessionFrom(c)
	view, err := h.deps.CartSvc.Update(c.Request.Context(), r, sess.SessionID, c.Param("id"), req)
	if err != nil {
		respondError(c, h.logger, "update cart", err)
		return
	}
	c.JSON(http.StatusOK, toCartView(view))
}

func (h *handlers) checkoutCart(c *gin.Context) {
	r := restaurantFrom(c)
	sess := sessionFrom(c)
	order, err := h.deps.OrderSvc.Submit(c.Request.Context(), r, sess.SessionID, c.Param("id"))
	if err != nil {
		respondError(c, h.logger, "checkout cart", err)
		return
	}
	c.JSON(http.StatusCreated, toOrderView(*order))
}

func (h *handlers) getOrder(c *gin.Context) {
	r := restaurantFrom(c)
	order, err := h.deps.OrderSvc.Get(c.Request.Context(), r.ID, c.Param("id"))
	if err != nil {
		respondError(c, h.logger, "get order", err)
		return
	}
	c.JSON(http.StatusOK, toOrderView(*order))
}

