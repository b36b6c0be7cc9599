package handler

import (
	payrollapp "github.com/erp/stockledger/internal/application/payroll"
	"github.com/erp/stockledger/internal/domain/payroll"
	"github.com/erp/stockledger/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// EmployeeHandler serves /employees
type EmployeeHandler struct {
	BaseHandler
	employees *payrollapp.EmployeeService
}

// NewEmployeeHandler creates a new EmployeeHandler
func NewEmployeeHandler(employees *payrollapp.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{employees: employees}
}

// Create registers an employee
func (h *EmployeeHandler) Create(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req dto.CreateEmployeeRequest
	if !h.bindJSON(c, &req) {
		return
	}
	e, err := h.employees.Create(c.Request.Context(), actor, req.Code, req.Name, req.Salary)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, dto.ToEmployeeResponse(e))
}

// Get returns an employee with the advance still owed
func (h *EmployeeHandler) Get(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	e, err := h.employees.Get(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.ToEmployeeResponse(e))
}

// List returns a page of employees; with_advance_due=true keeps only those owing
func (h *EmployeeHandler) List(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req dto.ListRequest
	if !h.bindQuery(c, &req) {
		return
	}
	filter := req.ToFilter()
	if !applyParams(c, &h.BaseHandler, filter, []QueryParam{BoolParam("with_advance_due")}) {
		return
	}
	employees, total, err := h.employees.List(c.Request.Context(), actor, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, dto.Map(employees, dto.ToEmployeeResponse), total, filter.Page, filter.PageSize)
}

// AdvanceHandler serves /advances. Advances are deleted, never cancelled.
type AdvanceHandler = DocumentHandler[payroll.Advance, payroll.AdvanceInput, dto.AdvanceRequest, dto.AdvanceResponse]

// NewAdvanceHandler creates a new AdvanceHandler
func NewAdvanceHandler(svc *payrollapp.AdvanceService) *AdvanceHandler {
	return NewDocumentHandler[payroll.Advance, payroll.AdvanceInput, dto.AdvanceRequest](
		svc, dto.ToAdvanceResponse,
		UUIDParam("employee_id"), StringParam("document_number"),
	)
}

// SalaryHandler serves /salaries
type SalaryHandler = DocumentHandler[payroll.SalaryPayment, payroll.SalaryInput, dto.SalaryRequest, dto.SalaryResponse]

// NewSalaryHandler creates a new SalaryHandler
func NewSalaryHandler(svc *payrollapp.SalaryService) *SalaryHandler {
	return NewDocumentHandler[payroll.SalaryPayment, payroll.SalaryInput, dto.SalaryRequest](
		svc, dto.ToSalaryResponse,
		UUIDParam("employee_id"), StringParam("period"),
	)
}
