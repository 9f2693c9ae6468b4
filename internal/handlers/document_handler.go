package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"garant-backend/internal/doctype"
	"garant-backend/internal/documents"
	"garant-backend/internal/files"
	"garant-backend/internal/users"

	"github.com/gin-gonic/gin"
)

// attachmentInput — данные документа из multipart-поля documentData.
type attachmentInput struct {
	DocumentItemID int64  `json:"documentItemId"`
	DocumentType   string `json:"documentType"`
}

// sendDocumentInput — запрос на отправку документа на согласование.
type sendDocumentInput struct {
	DocumentItemID int64  `json:"documentItemId" binding:"required"`
	IsDealDocument bool   `json:"isDealDocument"`
	DocumentType   string `json:"documentType" binding:"required"`
}

// approveContractInput — запрос на подтверждение основного договора.
type approveContractInput struct {
	DocumentItemID int64 `json:"documentItemId" binding:"required"`
}

// approveActInput — запрос на подтверждение акта этапа.
type approveActInput struct {
	DocumentItemID int64  `json:"documentItemId" binding:"required"`
	DocumentType   string `json:"documentType" binding:"required"`
	Side           string `json:"side" binding:"required"`
}

// rejectInput — запрос на отклонение документа.
type rejectInput struct {
	DocumentItemID int64  `json:"documentItemId" binding:"required"`
	DocumentType   string `json:"documentType" binding:"required"`
}

// AttachContractDocumentHandler прикрепляет основной договор стороны к сделке:
// файл уходит в хранилище, в БД остаётся только выданное хранилищем имя.
func AttachContractDocumentHandler(side doctype.Side, docs *documents.Store, store files.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		input, storedName, account, ok := saveAttachment(c, store)
		if !ok {
			return
		}

		document, err := docs.AddContractDocument(c.Request.Context(), storedName, input.DocumentItemID, side, true, account)
		if err != nil {
			documentError(c, err)
			return
		}

		c.JSON(http.StatusOK, document)
	}
}

// AttachActDocumentHandler прикрепляет акт этапа к сделке.
func AttachActDocumentHandler(docs *documents.Store, store files.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		input, storedName, account, ok := saveAttachment(c, store)
		if !ok {
			return
		}

		docType, err := doctype.Parse(input.DocumentType)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Неизвестный тип документа: " + input.DocumentType})
			return
		}

		document, err := docs.AddActDocument(c.Request.Context(), storedName, input.DocumentItemID, docType, true, account)
		if err != nil {
			documentError(c, err)
			return
		}

		c.JSON(http.StatusOK, document)
	}
}

// saveAttachment принимает multipart-запрос прикрепления: файл, documentData
// и аккаунт отправителя. При ошибке ответ уже записан.
func saveAttachment(c *gin.Context, store files.Store) (attachmentInput, string, string, bool) {
	var input attachmentInput

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Не передан файл документа"})
		return input, "", "", false
	}

	if err := json.Unmarshal([]byte(c.PostForm("documentData")), &input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Неверные данные документа: " + err.Error()})
		return input, "", "", false
	}

	account := c.PostForm("account")
	if account == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Не передан аккаунт пользователя"})
		return input, "", "", false
	}

	src, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось прочитать файл документа"})
		return input, "", "", false
	}
	defer src.Close()

	storedName, err := store.Save(fileHeader.Filename, src)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось сохранить файл документа"})
		return input, "", "", false
	}

	return input, storedName, account, true
}

// SendDocumentHandler отправляет документ на согласование контрагенту.
func SendDocumentHandler(docs *documents.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input sendDocumentInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Неверные данные: " + err.Error()})
			return
		}

		docType, err := doctype.Parse(input.DocumentType)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Неизвестный тип документа: " + input.DocumentType})
			return
		}

		sent, err := docs.SetSendStatus(c.Request.Context(), input.DocumentItemID, input.IsDealDocument, docType)
		if err != nil {
			documentError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": sent})
	}
}

// ApproveContractHandler подтверждает основной договор стороны.
func ApproveContractHandler(side doctype.Side, docs *documents.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input approveContractInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Неверные данные: " + err.Error()})
			return
		}

		approved, err := docs.ApproveContract(c.Request.Context(), input.DocumentItemID, side)
		if err != nil {
			documentError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": approved})
	}
}

// ApproveActHandler подтверждает акт этапа указанной стороны.
func ApproveActHandler(docs *documents.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input approveActInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Неверные данные: " + err.Error()})
			return
		}

		side, err := doctype.ParseSide(input.Side)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		approved, err := docs.ApproveAct(c.Request.Context(), input.DocumentItemID, side, input.DocumentType)
		if err != nil {
			documentError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": approved})
	}
}

// RejectDocumentHandler отклоняет отправленный на согласование документ.
func RejectDocumentHandler(docs *documents.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input rejectInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Неверные данные: " + err.Error()})
			return
		}

		rejected, err := docs.Reject(c.Request.Context(), input.DocumentItemID, input.DocumentType)
		if err != nil {
			documentError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": rejected})
	}
}

// DealDocumentsHandler возвращает основные договоры сделки в порядке загрузки.
func DealDocumentsHandler(docs *documents.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		itemID, ok := queryItemID(c)
		if !ok {
			return
		}

		result, err := docs.DealDocuments(c.Request.Context(), itemID)
		if err != nil {
			documentError(c, err)
			return
		}

		c.JSON(http.StatusOK, result)
	}
}

// ActsHandler возвращает отправленные акты стороны.
func ActsHandler(docs *documents.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		itemID, side, ok := queryItemIDAndSide(c)
		if !ok {
			return
		}

		result, err := docs.Acts(c.Request.Context(), itemID, side)
		if err != nil {
			documentError(c, err)
			return
		}

		c.JSON(http.StatusOK, result)
	}
}

// ApprovedActsHandler возвращает подтверждённые и ещё не оплаченные акты стороны.
func ApprovedActsHandler(docs *documents.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		itemID, side, ok := queryItemIDAndSide(c)
		if !ok {
			return
		}

		result, err := docs.ApprovedActs(c.Request.Context(), itemID, side)
		if err != nil {
			documentError(c, err)
			return
		}

		c.JSON(http.StatusOK, result)
	}
}

// AttachmentNameHandler возвращает имя отправленного договора стороны.
func AttachmentNameHandler(docs *documents.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		itemID, side, ok := queryItemIDAndSide(c)
		if !ok {
			return
		}

		name, err := docs.AttachmentName(c.Request.Context(), itemID, side)
		if err != nil {
			documentError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"documentName": name})
	}
}

func queryItemID(c *gin.Context) (int64, bool) {
	itemID, err := strconv.ParseInt(c.Query("itemId"), 10, 64)
	if err != nil || itemID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Не передан Id предмета сделки"})
		return 0, false
	}
	return itemID, true
}

func queryItemIDAndSide(c *gin.Context) (int64, doctype.Side, bool) {
	itemID, ok := queryItemID(c)
	if !ok {
		return 0, 0, false
	}

	side, err := doctype.ParseSide(c.Query("side"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return 0, 0, false
	}

	return itemID, side, true
}

// documentError переводит ошибки хранилища документов в HTTP-ответ.
func documentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, documents.ErrEmptyItemID):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Не передан Id предмета сделки"})
	case errors.Is(err, documents.ErrWrongDocumentType):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, users.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Пользователь не найден"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Операция с документом не выполнена"})
	}
}
