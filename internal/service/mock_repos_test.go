package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/esotericremi/Vii-Bookings-sub002/internal/model"
	"github.com/esotericremi/Vii-Bookings-sub002/internal/repository"
	apperrors "github.com/esotericremi/Vii-Bookings-sub002/pkg/errors"
)

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User
	seq   int
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.UserID == "" {
		m.seq++
		user.UserID = fmt.Sprintf("user-%d", m.seq)
	}
	user.CreatedAt = time.Now()
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.users, id)
	return nil
}

func (m *mockUserRepo) List(_ context.Context, filter repository.UserFilter) ([]model.User, int64, error) {
	var result []model.User
	for _, u := range m.users {
		if filter.Role != "" && u.Role != filter.Role {
			continue
		}
		if filter.Keyword != "" && !strings.Contains(u.Name, filter.Keyword) && !strings.Contains(u.Email, filter.Keyword) {
			continue
		}
		result = append(result, *u)
	}
	return result, int64(len(result)), nil
}

// ── Mock RoomRepository ──

type mockRoomRepo struct {
	rooms map[string]*model.Room
	seq   int
}

func newMockRoomRepo() *mockRoomRepo {
	return &mockRoomRepo{rooms: make(map[string]*model.Room)}
}

func (m *mockRoomRepo) Create(_ context.Context, room *model.Room) error {
	if room.RoomID == "" {
		m.seq++
		room.RoomID = fmt.Sprintf("room-%d", m.seq)
	}
	m.rooms[room.RoomID] = room
	return nil
}

func (m *mockRoomRepo) GetByID(_ context.Context, id string) (*model.Room, error) {
	if r, ok := m.rooms[id]; ok {
		return r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRoomRepo) List(_ context.Context, filter repository.RoomFilter) ([]model.Room, int64, error) {
	var result []model.Room
	for _, r := range m.rooms {
		if filter.ActiveOnly && !r.IsActive {
			continue
		}
		if filter.MinCapacity != nil && r.Capacity < *filter.MinCapacity {
			continue
		}
		result = append(result, *r)
	}
	return result, int64(len(result)), nil
}

func (m *mockRoomRepo) ListActive(_ context.Context) ([]model.Room, error) {
	var result []model.Room
	for _, r := range m.rooms {
		if r.IsActive {
			result = append(result, *r)
		}
	}
	return result, nil
}

func (m *mockRoomRepo) Update(_ context.Context, room *model.Room) error {
	m.rooms[room.RoomID] = room
	return nil
}

func (m *mockRoomRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.rooms, id)
	return nil
}

// ── Mock BookingRepository ──

type mockBookingRepo struct {
	bookings map[string]*model.Booking
	seq      int
	// createErr 非 nil 时 Create 直接返回该错误
	createErr error
	// rangeErr 非 nil 时 ListConfirmedInRange 直接返回该错误，模拟数据源故障
	rangeErr error
}

func newMockBookingRepo() *mockBookingRepo {
	return &mockBookingRepo{bookings: make(map[string]*model.Booking)}
}

func (m *mockBookingRepo) Create(_ context.Context, booking *model.Booking) error {
	if m.createErr != nil {
		return m.createErr
	}
	if booking.BookingID == "" {
		m.seq++
		booking.BookingID = fmt.Sprintf("booking-%d", m.seq)
	}
	if booking.Version == 0 {
		booking.Version = 1
	}
	booking.CreatedAt = time.Now()
	m.bookings[booking.BookingID] = booking
	return nil
}

func (m *mockBookingRepo) GetByID(_ context.Context, id string) (*model.Booking, error) {
	if b, ok := m.bookings[id]; ok {
		cp := *b
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockBookingRepo) List(_ context.Context, filter repository.BookingFilter) ([]model.Booking, int64, error) {
	var result []model.Booking
	for _, b := range m.bookings {
		if filter.RoomID != "" && b.RoomID != filter.RoomID {
			continue
		}
		if filter.UserID != "" && b.UserID != filter.UserID {
			continue
		}
		if filter.Status != "" && b.Status != filter.Status {
			continue
		}
		if !filter.Date.IsZero() {
			dayStart := time.Date(filter.Date.Year(), filter.Date.Month(), filter.Date.Day(), 0, 0, 0, 0, filter.Date.Location())
			if b.StartTime.Before(dayStart) || !b.StartTime.Before(dayStart.AddDate(0, 0, 1)) {
				continue
			}
		}
		result = append(result, *b)
	}
	return result, int64(len(result)), nil
}

func (m *mockBookingRepo) ListConfirmedInRange(_ context.Context, roomID string, start, end time.Time) ([]model.Booking, error) {
	if m.rangeErr != nil {
		return nil, m.rangeErr
	}
	var result []model.Booking
	for _, b := range m.bookings {
		if b.RoomID != roomID || b.Status != model.BookingStatusConfirmed {
			continue
		}
		if b.StartTime.Before(end) && start.Before(b.EndTime) {
			result = append(result, *b)
		}
	}
	return result, nil
}

func (m *mockBookingRepo) UpdateVersioned(_ context.Context, booking *model.Booking, expectedVersion int) error {
	stored, ok := m.bookings[booking.BookingID]
	if !ok || stored.Version != expectedVersion {
		return apperrors.ErrOptimisticLock
	}
	cp := *booking
	cp.Version = expectedVersion + 1
	m.bookings[booking.BookingID] = &cp
	booking.Version = cp.Version
	return nil
}

// ── Mock SystemConfigRepository ──

type mockSystemConfigRepo struct {
	cfg *model.SystemConfig
	// getErr 非 nil 时 Get 直接返回该错误，模拟配置不可读
	getErr error
}

func newMockSystemConfigRepo() *mockSystemConfigRepo {
	return &mockSystemConfigRepo{
		cfg: &model.SystemConfig{
			Singleton:           true,
			OpenHour:            8,
			CloseHour:           20,
			SlotDurationMinutes: 30,
			CacheMaxAgeSeconds:  300,
			HorizonDays:         30,
		},
	}
}

func (m *mockSystemConfigRepo) Get(_ context.Context) (*model.SystemConfig, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	cp := *m.cfg
	return &cp, nil
}

func (m *mockSystemConfigRepo) Update(_ context.Context, cfg *model.SystemConfig) error {
	m.cfg = cfg
	return nil
}

// ── Mock NotificationRepository ──

type mockNotificationRepo struct {
	notifications []*model.Notification
	seq           int
}

func newMockNotificationRepo() *mockNotificationRepo {
	return &mockNotificationRepo{}
}

func (m *mockNotificationRepo) Create(_ context.Context, notification *model.Notification) error {
	m.seq++
	notification.NotificationID = fmt.Sprintf("notif-%d", m.seq)
	notification.CreatedAt = time.Now()
	m.notifications = append(m.notifications, notification)
	return nil
}

func (m *mockNotificationRepo) ListByUser(_ context.Context, userID string, unreadOnly bool, _, _ int) ([]model.Notification, int64, error) {
	var result []model.Notification
	for _, n := range m.notifications {
		if n.UserID != userID {
			continue
		}
		if unreadOnly && n.IsRead {
			continue
		}
		result = append(result, *n)
	}
	return result, int64(len(result)), nil
}

func (m *mockNotificationRepo) CountUnread(_ context.Context, userID string) (int64, error) {
	var count int64
	for _, n := range m.notifications {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (m *mockNotificationRepo) MarkRead(_ context.Context, userID, notificationID string) error {
	for _, n := range m.notifications {
		if n.NotificationID == notificationID && n.UserID == userID {
			n.IsRead = true
		}
	}
	return nil
}

func (m *mockNotificationRepo) MarkAllRead(_ context.Context, userID string) error {
	for _, n := range m.notifications {
		if n.UserID == userID {
			n.IsRead = true
		}
	}
	return nil
}

// ── 组装辅助 ──

func newMockRepository() *repository.Repository {
	return &repository.Repository{
		User:         newMockUserRepo(),
		Room:         newMockRoomRepo(),
		Booking:      newMockBookingRepo(),
		SystemConfig: newMockSystemConfigRepo(),
		Notification: newMockNotificationRepo(),
	}
}
