package dto

import "time"

// ── 用户模块 DTO ──

// UserResponse 用户概要（嵌入预订等响应）
type UserResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// UserDetailResponse 用户详情
type UserDetailResponse struct {
	UserResponse
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// UserListRequest 用户列表请求
type UserListRequest struct {
	Page     int    `form:"page,default=1"       binding:"omitempty,min=1"`
	PageSize int    `form:"page_size,default=20" binding:"omitempty,min=1,max=100"`
	Role     string `form:"role"                 binding:"omitempty,oneof=admin member"`
	Keyword  string `form:"keyword"              binding:"omitempty,max=100"`
}

// UpdateUserRequest 更新用户请求
type UpdateUserRequest struct {
	Name     *string `json:"name"      binding:"omitempty,min=2,max=50"`
	Email    *string `json:"email"     binding:"omitempty,email"`
	IsActive *bool   `json:"is_active"`
}

// AssignRoleRequest 分配角色请求
type AssignRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=admin member"`
}
