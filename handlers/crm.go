package handlers

import (
	"net/http"

	"salonbook/models"
	"salonbook/services/crm"
	"salonbook/utils"

	"github.com/gin-gonic/gin"
)

// CRMHandler serves customers, tasks, leads and campaigns.
type CRMHandler struct {
	Service crm.CRMService
}

func NewCRMHandler(s crm.CRMService) *CRMHandler {
	return &CRMHandler{Service: s}
}

// respond writes v with status, or the error.
func respond(c *gin.Context, status int, v any, err error) {
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(status, v)
}

func (h *CRMHandler) ListCustomersHandler(c *gin.Context) {
	customers, err := h.Service.ListCustomers(c.Request.Context(), businessID(c), c.Query("tag"))
	respond(c, http.StatusOK, customers, err)
}

func (h *CRMHandler) CreateCustomerHandler(c *gin.Context) {
	var input crm.CustomerInput
	if !bindJSON(c, &input) {
		return
	}
	customer, err := h.Service.CreateCustomer(c.Request.Context(), businessID(c), input)
	respond(c, http.StatusCreated, customer, err)
}

func (h *CRMHandler) GetCustomerHandler(c *gin.Context) {
	customer, err := h.Service.GetCustomer(c.Request.Context(), businessID(c), c.Param("id"))
	respond(c, http.StatusOK, customer, err)
}

func (h *CRMHandler) UpdateCustomerHandler(c *gin.Context) {
	var input crm.CustomerInput
	if !bindJSON(c, &input) {
		return
	}
	customer, err := h.Service.UpdateCustomer(c.Request.Context(), businessID(c), c.Param("id"), input)
	respond(c, http.StatusOK, customer, err)
}

func (h *CRMHandler) AddTagHandler(c *gin.Context) {
	var req struct {
		Tag string `json:"tag" binding:"required"`
	}
	if !bindJSON(c, &req) {
		return
	}
	customer, err := h.Service.AddTag(c.Request.Context(), businessID(c), c.Param("id"), req.Tag)
	respond(c, http.StatusOK, customer, err)
}

func (h *CRMHandler) RemoveTagHandler(c *gin.Context) {
	customer, err := h.Service.RemoveTag(c.Request.Context(), businessID(c), c.Param("id"), c.Param("tag"))
	respond(c, http.StatusOK, customer, err)
}

func (h *CRMHandler) TimelineHandler(c *gin.Context) {
	events, err := h.Service.Timeline(c.Request.Context(), businessID(c), c.Param("id"))
	respond(c, http.StatusOK, events, err)
}

func (h *CRMHandler) AddNoteHandler(c *gin.Context) {
	var req struct {
		Note string `json:"note" binding:"required"`
	}
	if !bindJSON(c, &req) {
		return
	}
	event, err := h.Service.AddNote(c.Request.Context(), businessID(c), c.Param("id"), req.Note, actorID(c))
	respond(c, http.StatusCreated, event, err)
}

func (h *CRMHandler) ListTasksHandler(c *gin.Context) {
	tasks, err := h.Service.ListTasks(c.Request.Context(), businessID(c))
	respond(c, http.StatusOK, tasks, err)
}

func (h *CRMHandler) CreateTaskHandler(c *gin.Context) {
	var input crm.TaskInput
	if !bindJSON(c, &input) {
		return
	}
	task, err := h.Service.CreateTask(c.Request.Context(), businessID(c), input, actorID(c))
	respond(c, http.StatusCreated, task, err)
}

func (h *CRMHandler) CompleteTaskHandler(c *gin.Context) {
	task, err := h.Service.CompleteTask(c.Request.Context(), businessID(c), c.Param("id"), actorID(c))
	respond(c, http.StatusOK, task, err)
}

func (h *CRMHandler) ListLeadsHandler(c *gin.Context) {
	leads, err := h.Service.ListLeads(c.Request.Context(), businessID(c))
	respond(c, http.StatusOK, leads, err)
}

func (h *CRMHandler) CreateLeadHandler(c *gin.Context) {
	var input crm.LeadInput
	if !bindJSON(c, &input) {
		return
	}
	lead, err := h.Service.CreateLead(c.Request.Context(), businessID(c), input)
	respond(c, http.StatusCreated, lead, err)
}

func (h *CRMHandler) SetLeadStatusHandler(c *gin.Context) {
	var req struct {
		Status models.LeadStatus `json:"status" binding:"required"`
	}
	if !bindJSON(c, &req) {
		return
	}
	lead, err := h.Service.SetLeadStatus(c.Request.Context(), businessID(c), c.Param("id"), req.Status)
	respond(c, http.StatusOK, lead, err)
}

func (h *CRMHandler) ConvertLeadHandler(c *gin.Context) {
	customer, err := h.Service.ConvertLead(c.Request.Context(), businessID(c), c.Param("id"), actorID(c))
	respond(c, http.StatusOK, customer, err)
}

func (h *CRMHandler) ListCampaignsHandler(c *gin.Context) {
	campaigns, err := h.Service.ListCampaigns(c.Request.Context(), businessID(c))
	respond(c, http.StatusOK, campaigns, err)
}

func (h *CRMHandler) CreateCampaignHandler(c *gin.Context) {
	var input crm.CampaignInput
	if !bindJSON(c, &input) {
		return
	}
	campaign, err := h.Service.CreateCampaign(c.Request.Context(), businessID(c), input, actorID(c))
	respond(c, http.StatusCreated, campaign, err)
}

func (h *CRMHandler) SendCampaignHandler(c *gin.Context) {
	campaign, err := h.Service.SendCampaign(c.Request.Context(), businessID(c), c.Param("id"), actorID(c))
	respond(c, http.StatusOK, campaign, err)
}

// ChurnScanHandler runs the churn scan on demand.
func (h *CRMHandler) ChurnScanHandler(c *gin.Context) {
	report, err := h.Service.ScanChurn(c.Request.Context(), businessID(c))
	respond(c, http.StatusOK, report, err)
}
