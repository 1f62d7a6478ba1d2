package service

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/mainstreet/copilot-api/internal/dto"
	"github.com/mainstreet/copilot-api/internal/models"
	appErrors "github.com/mainstreet/copilot-api/pkg/errors"
	"github.com/mainstreet/copilot-api/pkg/mail"
)

type employeeRepository interface {
	List(ctx context.Context, businessID string, activeOnly bool) ([]models.Employee, error)
	FindByID(ctx context.Context, businessID, id string) (*models.Employee, error)
	Create(ctx context.Context, employee *models.Employee) error
	Update(ctx context.Context, employee *models.Employee) error
	Deactivate(ctx context.Context, businessID, id string) error
	LinkUser(ctx context.Context, businessID, id, userID string) error
}

type inviteUserRepository interface {
	Create(ctx context.Context, user *models.User) error
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	InsertAuditLog(ctx context.Context, entry *models.AuditLog) error
}

type inviteMailer interface {
	Send(msg mail.Message) error
	MockMode() bool
}

// EmployeeService manages the worker roster of a business.
type EmployeeService struct {
	employees employeeRepository
	users     inviteUserRepository
	mailer    inviteMailer
	validator *validator.Validate
	logger    *zap.Logger
}

// NewEmployeeService constructs an EmployeeService.
func NewEmployeeService(employees employeeRepository, users inviteUserRepository, mailer inviteMailer, validate *validator.Validate, logger *zap.Logger) *EmployeeService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EmployeeService{employees: employees, users: users, mailer: mailer, validator: validate, logger: logger}
}

// List returns the employees of a business, optionally only active ones.
func (s *EmployeeService) List(ctx context.Context, businessID string, activeOnly bool) ([]models.Employee, error) {
	employees, err := s.employees.List(ctx, businessID, activeOnly)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list employees")
	}
	return employees, nil
}

// Get fetches one employee.
func (s *EmployeeService) Get(ctx context.Context, businessID, id string) (*models.Employee, error) {
	employee, err := s.employees.FindByID(ctx, businessID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "employee not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load employee")
	}
	return employee, nil
}

// Create adds a worker to the roster.
func (s *EmployeeService) Create(ctx context.Context, businessID string, req models.CreateEmployeeRequest) (*models.Employee, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid employee payload")
	}

	employee := &models.Employee{
		BusinessID: businessID,
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		Role:       req.Role,
		Strength:   req.Strength,
		HourlyWage: req.HourlyWage,
		Active:     true,
	}
	if err := s.employees.Create(ctx, employee); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create employee")
	}
	return employee, nil
}

// Update applies a partial update to an employee.
func (s *EmployeeService) Update(ctx context.Context, businessID, id string, req models.UpdateEmployeeRequest) (*models.Employee, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid employee payload")
	}

	employee, err := s.employees.FindByID(ctx, businessID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "employee not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load employee")
	}

	if req.Name != nil {
		employee.Name = *req.Name
	}
	if req.Email != nil {
		employee.Email = *req.Email
	}
	if req.Phone != nil {
		employee.Phone = *req.Phone
	}
	if req.Role != nil {
		employee.Role = *req.Role
	}
	if req.Strength != nil {
		employee.Strength = *req.Strength
	}
	if req.HourlyWage != nil {
		employee.HourlyWage = *req.HourlyWage
	}
	if req.Active != nil {
		employee.Active = *req.Active
	}

	if err := s.employees.Update(ctx, employee); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update employee")
	}
	return employee, nil
}

// Deactivate removes a worker from future scheduling while keeping their
// history intact.
func (s *EmployeeService) Deactivate(ctx context.Context, businessID, id string) error {
	if _, err := s.Get(ctx, businessID, id); err != nil {
		return err
	}
	if err := s.employees.Deactivate(ctx, businessID, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to deactivate employee")
	}
	return nil
}

// Invite creates an EMPLOYEE login account for a worker and mails a
// temporary password. In mock mail mode the password is returned in the
// response instead.
func (s *EmployeeService) Invite(ctx context.Context, businessID, invitedBy string, req dto.InviteEmployeeRequest) (*dto.InviteEmployeeResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid invite payload")
	}

	employee, err := s.Get(ctx, businessID, req.EmployeeID)
	if err != nil {
		return nil, err
	}
	if employee.UserID != nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, "employee already has an account")
	}

	taken, err := s.users.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check email")
	}
	if taken {
		return nil, appErrors.Clone(appErrors.ErrConflict, "email is already registered")
	}

	tempPassword, err := generateTempPassword()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to generate password")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(tempPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	account := &models.User{
		BusinessID:   businessID,
		Email:        req.Email,
		PasswordHash: string(hash),
		FullName:     employee.Name,
		Role:         models.RoleEmployee,
		Active:       true,
	}
	if err := s.users.Create(ctx, account); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create employee account")
	}

	if err := s.employees.LinkUser(ctx, businessID, employee.ID, account.ID); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to link employee account")
	}

	if err := s.users.InsertAuditLog(ctx, &models.AuditLog{
		BusinessID: businessID,
		UserID:     &invitedBy,
		Action:     models.AuditActionInviteEmployee,
		Resource:   "employee",
		ResourceID: &employee.ID,
		NewValues:  []byte(fmt.Sprintf(`{"email":%q}`, req.Email)),
	}); err != nil {
		s.logger.Warn("failed to record invite audit log", zap.Error(err))
	}

	resp := &dto.InviteEmployeeResponse{
		UserID:     account.ID,
		EmployeeID: employee.ID,
		Email:      req.Email,
	}

	msg := mail.Message{
		To:      req.Email,
		Subject: "You're invited to your team's scheduling workspace",
		HTML: fmt.Sprintf("<p>Hi %s,</p><p>An account was created for you. Sign in with this temporary password and change it right away:</p><p><b>%s</b></p>",
			employee.Name, tempPassword),
	}
	if s.mailer != nil {
		if err := s.mailer.Send(msg); err != nil {
			s.logger.Warn("failed to send invite email", zap.Error(err), zap.String("email", req.Email))
		}
		if s.mailer.MockMode() {
			resp.TempPassword = tempPassword
		}
	} else {
		resp.TempPassword = tempPassword
	}
	return resp, nil
}

func generateTempPassword() (string, error) {
	buf := make([]byte, 12)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
