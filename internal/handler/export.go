package handler

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/taha-yassine-romdhane/elite-m-dicale-store/internal/models"
	"github.com/taha-yassine-romdhane/elite-m-dicale-store/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// ExportHandler produces admin spreadsheets.
type ExportHandler struct {
	DB *gorm.DB
}

func NewExportHandler(db *gorm.DB) *ExportHandler {
	return &ExportHandler{DB: db}
}

func formatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// ExportOrdersCSV writes every order line as CSV.
func (h *ExportHandler) ExportOrdersCSV(c *gin.Context) {
	var orders []models.Order
	if err := h.DB.Preload("Items.Product").Preload("User").
		Order("date_creation DESC").
		Find(&orders).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Erreur lors du chargement des commandes")
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"commandes_%s.csv\"",
		time.Now().Format("20060102")))

	// UTF-8 BOM so Excel reads accents correctly
	_, _ = c.Writer.Write([]byte{0xEF, 0xBB, 0xBF})

	writer := csv.NewWriter(c.Writer)
	writer.Comma = ';'
	defer writer.Flush()

	_ = writer.Write([]string{"Commande", "Date", "Client", "Email", "Statut", "Produit", "Quantité", "Prix unitaire", "Total commande"})
	for _, o := range orders {
		var client, email string
		if o.User != nil {
			client = o.User.FullName()
			email = o.User.Email
		}
		for _, it := range o.Items {
			_ = writer.Write([]string{
				o.ID,
				o.DateCreation.Format("2006-01-02 15:04"),
				client,
				email,
				o.Status,
				it.Product.Name,
				strconv.Itoa(it.Quantity),
				formatPrice(it.Price),
				formatPrice(o.Total),
			})
		}
	}
}

// ExportProductsXLSX writes the catalog as an XLSX workbook.
func (h *ExportHandler) ExportProductsXLSX(c *gin.Context) {
	var products []models.Product
	if err := h.DB.Order("category ASC, name ASC").Find(&products).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Erreur lors du chargement des produits")
		return
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Produits"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Erreur lors de la création de la feuille")
		return
	}
	f.SetActiveSheet(index)
	_ = f.DeleteSheet("Sheet1")

	headers := []string{"ID", "Nom", "Marque", "Catégorie", "Sous-catégorie", "Type", "Prix (TND)", "En stock", "Caractéristiques"}
	for i, title := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheetName, cell, title)
	}

	for idx, p := range products {
		row := idx + 2
		stock := "Non"
		if p.InStock {
			stock = "Oui"
		}
		values := []interface{}{
			p.ID, p.Name, p.Brand, p.Category, p.SubCategory, p.Type,
			p.Price, stock, strings.Join(p.FeatureList(), ", "),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			_ = f.SetCellValue(sheetName, cell, v)
		}
	}

	_ = f.SetColWidth(sheetName, "A", "A", 38)
	_ = f.SetColWidth(sheetName, "B", "B", 30)
	_ = f.SetColWidth(sheetName, "C", "F", 16)
	_ = f.SetColWidth(sheetName, "G", "H", 12)
	_ = f.SetColWidth(sheetName, "I", "I", 50)

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"produits_%s.xlsx\"",
		time.Now().Format("20060102")))

	if err := f.Write(c.Writer); err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Erreur lors de l'export")
	}
}
