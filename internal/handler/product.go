package handler

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/taha-yassine-romdhane/elite-m-dicale-store/internal/models"
	"github.com/taha-yassine-romdhane/elite-m-dicale-store/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ProductHandler serves the catalog and its admin CRUD.
type ProductHandler struct {
	DB       *gorm.DB
	PageSize int
}

func NewProductHandler(db *gorm.DB, pageSize int) *ProductHandler {
	if pageSize <= 0 {
		pageSize = 12
	}
	return &ProductHandler{DB: db, PageSize: pageSize}
}

func mediaByOrder(db *gorm.DB) *gorm.DB {
	return db.Order("sort_order ASC")
}

// ---------- public ----------

// ListProducts filters by category, type, subCategory, brand and a free-text
// search, newest first, paginated.
func (h *ProductHandler) ListProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page <= 0 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(h.PageSize)))
	if limit <= 0 || limit > 100 {
		limit = h.PageSize
	}

	base := h.DB.Model(&models.Product{})
	for param, column := range map[string]string{
		"category":    "category",
		"type":        "type",
		"subCategory": "sub_category",
		"brand":       "brand",
	} {
		if v := strings.TrimSpace(c.Query(param)); v != "" {
			base = base.Where(column+" = ?", v)
		}
	}
	if q := strings.TrimSpace(c.Query("search")); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		base = base.Where("LOWER(name) LIKE ? OR LOWER(brand) LIKE ? OR LOWER(description) LIKE ?", like, like, like)
	}
	// reused for count and page
	base = base.Session(&gorm.Session{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Erreur lors du chargement des produits")
		return
	}

	products := []models.Product{}
	if err := base.Preload("Media", mediaByOrder).
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&products).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Erreur lors du chargement des produits")
		return
	}

	util.JSON(c, http.StatusOK, util.Response{
		"products": products,
		"pagination": gin.H{
			"page":       page,
			"limit":      limit,
			"total":      total,
			"totalPages": int(math.Ceil(float64(total) / float64(limit))),
		},
	})
}

// SearchProducts matches q against name, brand and description.
func (h *ProductHandler) SearchProducts(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	products := []models.Product{}
	if q == "" {
		util.JSON(c, http.StatusOK, products)
		return
	}

	like := "%" + strings.ToLower(q) + "%"
	if err := h.DB.Preload("Media", mediaByOrder).
		Where("LOWER(name) LIKE ? OR LOWER(brand) LIKE ? OR LOWER(description) LIKE ?", like, like, like).
		Order("name ASC").
		Limit(50).
		Find(&products).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Erreur lors de la recherche")
		return
	}
	util.JSON(c, http.StatusOK, products)
}

func (h *ProductHandler) GetProduct(c *gin.Context) {
	var p models.Product
	if err := h.DB.Preload("Media", mediaByOrder).First(&p, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.Error(c, http.StatusNotFound, util.CodeNotFound, "Produit introuvable")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Erreur lors du chargement du produit")
		}
		return
	}
	util.JSON(c, http.StatusOK, p)
}

// ---------- admin ----------

type mediaReq struct {
	URL  string `json:"url" binding:"required"`
	Type string `json:"type" binding:"omitempty,oneof=image video"`
	Alt  string `json:"alt" binding:"max=255"`
}

type productReq struct {
	Name        string     `json:"name" binding:"required,max=255"`
	Brand       string     `json:"brand" binding:"max=128"`
	Category    string     `json:"category" binding:"required,max=64"`
	SubCategory string     `json:"subCategory" binding:"max=64"`
	Type        string     `json:"type" binding:"max=64"`
	Description string     `json:"description"`
	Price       float64    `json:"price"`
	Features    []string   `json:"features"`
	InStock     *bool      `json:"inStock"`
	Media       []mediaReq `json:"media" binding:"dive"`
}

// apply copies the request onto p. Media get their position from the slice
// index.
func (r *productReq) apply(p *models.Product) {
	p.Name = strings.TrimSpace(r.Name)
	p.Brand = strings.TrimSpace(r.Brand)
	p.Category = strings.TrimSpace(r.Category)
	p.SubCategory = strings.TrimSpace(r.SubCategory)
	p.Type = strings.TrimSpace(r.Type)
	p.Description = r.Description
	p.Price = r.Price
	p.InStock = r.InStock == nil || *r.InStock

	features := make([]string, 0, len(r.Features))
	for _, f := range r.Features {
		if f = strings.TrimSpace(f); f != "" {
			features = append(features, f)
		}
	}
	p.SetFeatureList(features)

	p.Media = make([]models.Media, 0, len(r.Media))
	for i, m := range r.Media {
		typ := m.Type
		if typ == "" {
			typ = "image"
		}
		p.Media = append(p.Media, models.Media{
			ProductID: p.ID,
			URL:       m.URL,
			Type:      typ,
			Alt:       m.Alt,
			Order:     i,
		})
	}
}

func (h *ProductHandler) bind(c *gin.Context) (*productReq, bool) {
	var req productReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Paramètres invalides")
		return nil, false
	}
	if err := util.ValidatePrice(req.Price); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Prix invalide")
		return nil, false
	}
	return &req, true
}

func (h *ProductHandler) CreateProduct(c *gin.Context) {
	req, ok := h.bind(c)
	if !ok {
		return
	}

	var p models.Product
	req.apply(&p)
	if err := h.DB.Create(&p).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Erreur lors de la création du produit")
		return
	}
	util.JSON(c, http.StatusCreated, p)
}

// UpdateProduct replaces a product and its media list.
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	req, ok := h.bind(c)
	if !ok {
		return
	}

	var p models.Product
	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&p, "id = ?", c.Param("id")).Error; err != nil {
			return err
		}
		req.apply(&p)
		if err := tx.Where("product_id = ?", p.ID).Delete(&models.Media{}).Error; err != nil {
			return err
		}
		return tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(&p).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.Error(c, http.StatusNotFound, util.CodeNotFound, "Produit introuvable")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Erreur lors de la mise à jour du produit")
		}
		return
	}
	util.JSON(c, http.StatusOK, p)
}

// DeleteProduct refuses products that appear in an order.
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	id := c.Param("id")

	var used int64
	if err := h.DB.Model(&models.OrderItem{}).Where("product_id = ?", id).Count(&used).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Erreur lors de la suppression du produit")
		return
	}
	if used > 0 {
		util.Error(c, http.StatusConflict, util.CodeConflict, "Ce produit figure dans des commandes et ne peut pas être supprimé")
		return
	}

	// media go with the product (ON DELETE CASCADE)
	res := h.DB.Delete(&models.Product{}, "id = ?", id)
	if res.Error != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Erreur lors de la suppression du produit")
		return
	}
	if res.RowsAffected == 0 {
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "Produit introuvable")
		return
	}
	util.JSON(c, http.StatusOK, util.Response{"message": "Produit supprimé"})
}
