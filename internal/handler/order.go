package handler

import (
	"errors"
	"net/http"

	"github.com/taha-yassine-romdhane/elite-m-dicale-store/internal/middleware"
	"github.com/taha-yassine-romdhane/elite-m-dicale-store/internal/models"
	"github.com/taha-yassine-romdhane/elite-m-dicale-store/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// OrderHandler serves customer orders and their admin follow-up.
type OrderHandler struct {
	DB *gorm.DB
}

func NewOrderHandler(db *gorm.DB) *OrderHandler {
	return &OrderHandler{DB: db}
}

func (h *OrderHandler) withItems(db *gorm.DB) *gorm.DB {
	return db.Preload("Items.Product.Media", mediaByOrder)
}

// UserOrders lists the current user's orders, newest first.
func (h *OrderHandler) UserOrders(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "Non authentifié")
		return
	}

	orders := []models.Order{}
	if err := h.withItems(h.DB).
		Where("user_id = ?", user.ID).
		Order("date_creation DESC").
		Find(&orders).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Erreur lors du chargement des commandes")
		return
	}
	util.JSON(c, http.StatusOK, orders)
}

type orderLineReq struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity"`
}

type createOrderReq struct {
	Items []orderLineReq `json:"items" binding:"required,min=1,dive"`
	Devis bool           `json:"devis"`
}

// CreateOrder prices every line from the catalog and stores the order. A
// quote request ("devis") is stored with status DEVIS.
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "Non authentifié")
		return
	}

	var req createOrderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "La commande doit contenir au moins un article")
		return
	}
	for _, line := range req.Items {
		if err := util.ValidateQuantity(line.Quantity); err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Quantité invalide")
			return
		}
	}

	order := models.Order{UserID: user.ID, Status: models.OrderPending}
	if req.Devis {
		order.Status = models.OrderQuote
	}

	errUnknownProduct := errors.New("unknown product")
	err := h.DB.Transaction(func(tx *gorm.DB) error {
		for _, line := range req.Items {
			var p models.Product
			if err := tx.First(&p, "id = ?", line.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return errUnknownProduct
				}
				return err
			}
			order.Items = append(order.Items, models.OrderItem{
				ProductID: p.ID,
				Quantity:  line.Quantity,
				Price:     p.Price,
			})
			order.Total += p.Price * float64(line.Quantity)
		}
		items := order.Items
		if err := tx.Omit("Items").Create(&order).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].OrderID = order.ID
		}
		return tx.Omit("Product").Create(&items).Error
	})
	if err != nil {
		if errors.Is(err, errUnknownProduct) {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Produit introuvable dans la commande")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Erreur lors de la création de la commande")
		}
		return
	}

	if err := h.withItems(h.DB).First(&order, "id = ?", order.ID).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Erreur lors du chargement de la commande")
		return
	}
	util.JSON(c, http.StatusCreated, order)
}

// ListOrders returns every order with its customer. Admin only.
func (h *OrderHandler) ListOrders(c *gin.Context) {
	orders := []models.Order{}
	if err := h.withItems(h.DB).
		Preload("User").
		Order("date_creation DESC").
		Find(&orders).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Erreur lors du chargement des commandes")
		return
	}
	util.JSON(c, http.StatusOK, orders)
}

type orderStatusReq struct {
	Status string `json:"status" binding:"required"`
}

// UpdateOrderStatus moves an order to another status. Admin only.
func (h *OrderHandler) UpdateOrderStatus(c *gin.Context) {
	var req orderStatusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Statut requis")
		return
	}
	if err := util.ValidateOrderStatus(req.Status); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Statut invalide")
		return
	}

	res := h.DB.Model(&models.Order{}).Where("id = ?", c.Param("id")).Update("status", req.Status)
	if res.Error != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Erreur lors de la mise à jour de la commande")
		return
	}
	if res.RowsAffected == 0 {
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "Commande introuvable")
		return
	}

	var order models.Order
	if err := h.withItems(h.DB).Preload("User").First(&order, "id = ?", c.Param("id")).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Erreur lors du chargement de la commande")
		return
	}
	util.JSON(c, http.StatusOK, order)
}
