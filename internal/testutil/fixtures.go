package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"gorm.io/gorm"

	"github.com/qs3c/tutor_go_server/internal/model"
)

var fixtureSeq int64

func nextSeq() int64 {
	return atomic.AddInt64(&fixtureSeq, 1)
}

// TestUser 创建测试用户
func TestUser(t *testing.T, db *gorm.DB, opts ...func(*model.User)) *model.User {
	t.Helper()

	seq := nextSeq()
	email := fmt.Sprintf("test_%d@example.com", seq)
	passwordHash := "$2a$10$abcdefghijklmnopqrstuvwxyz123456" // bcrypt hash placeholder
	user := &model.User{
		Username:     fmt.Sprintf("testuser_%d", seq),
		Email:        &email,
		PasswordHash: &passwordHash,
	}

	for _, opt := range opts {
		opt(user)
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	return user
}

// WithUsername 设置用户名
func WithUsername(username string) func(*model.User) {
	return func(u *model.User) {
		u.Username = username
	}
}

// WithEmail 设置邮箱
func WithEmail(email string) func(*model.User) {
	return func(u *model.User) {
		u.Email = &email
	}
}

// WithAdmin 设置为管理员
func WithAdmin() func(*model.User) {
	return func(u *model.User) {
		u.IsAdmin = true
	}
}

// TestTutorial 创建测试教程（默认已发布）
func TestTutorial(t *testing.T, db *gorm.DB, authorID int64, opts ...func(*model.Tutorial)) *model.Tutorial {
	t.Helper()

	tutorial := &model.Tutorial{
		AuthorID: authorID,
		Title:    fmt.Sprintf("Test Tutorial %d", nextSeq()),
		Status:   model.TutorialStatusPublished,
	}

	for _, opt := range opts {
		opt(tutorial)
	}

	if err := db.Create(tutorial).Error; err != nil {
		t.Fatalf("Failed to create test tutorial: %v", err)
	}

	return tutorial
}

// WithTutorialStatus 设置教程状态
func WithTutorialStatus(status string) func(*model.Tutorial) {
	return func(tu *model.Tutorial) {
		tu.Status = status
	}
}

// TestCourse 创建测试课程（默认已发布）
func TestCourse(t *testing.T, db *gorm.DB, authorID int64, opts ...func(*model.Course)) *model.Course {
	t.Helper()

	course := &model.Course{
		AuthorID: authorID,
		Title:    fmt.Sprintf("Test Course %d", nextSeq()),
		Status:   model.CourseStatusPublished,
	}

	for _, opt := range opts {
		opt(course)
	}

	if err := db.Create(course).Error; err != nil {
		t.Fatalf("Failed to create test course: %v", err)
	}

	return course
}

// TestComment 创建顶层测试评论（直接落库，不经过 service）
func TestComment(t *testing.T, db *gorm.DB, user *model.User, contentType string, contentID int64, opts ...func(*model.Comment)) *model.Comment {
	t.Helper()

	comment := &model.Comment{
		ContentType: contentType,
		ContentID:   contentID,
		Content:     fmt.Sprintf("test comment %d", nextSeq()),
		AuthorID:    user.ID,
		AuthorName:  user.Username,
		IsApproved:  true,
	}
	if user.Email != nil {
		comment.AuthorEmail = *user.Email
	}

	for _, opt := range opts {
		opt(comment)
	}

	// IsApproved 带 default:true 标签，GORM Create 会用默认值覆盖零值 false，需记下意图并在插入后显式落库
	approved := comment.IsApproved

	if err := db.Create(comment).Error; err != nil {
		t.Fatalf("Failed to create test comment: %v", err)
	}

	if !approved {
		if err := db.Model(comment).Update("is_approved", false).Error; err != nil {
			t.Fatalf("Failed to set test comment unapproved: %v", err)
		}
		comment.IsApproved = false
	}

	return comment
}

// TestReply 创建回复（挂在 parent 下，层级自动推导，并维护 parent 的 reply_count）
func TestReply(t *testing.T, db *gorm.DB, user *model.User, parent *model.Comment, opts ...func(*model.Comment)) *model.Comment {
	t.Helper()

	reply := &model.Comment{
		ContentType: parent.ContentType,
		ContentID:   parent.ContentID,
		ParentID:    &parent.ID,
		Level:       parent.Level + 1,
		Content:     fmt.Sprintf("test reply %d", nextSeq()),
		AuthorID:    user.ID,
		AuthorName:  user.Username,
		IsApproved:  true,
	}
	if user.Email != nil {
		reply.AuthorEmail = *user.Email
	}

	for _, opt := range opts {
		opt(reply)
	}

	// IsApproved 带 default:true 标签，GORM Create 会用默认值覆盖零值 false，需记下意图并在插入后显式落库
	approved := reply.IsApproved

	if err := db.Create(reply).Error; err != nil {
		t.Fatalf("Failed to create test reply: %v", err)
	}

	if !approved {
		if err := db.Model(reply).Update("is_approved", false).Error; err != nil {
			t.Fatalf("Failed to set test reply unapproved: %v", err)
		}
		reply.IsApproved = false
	}

	err := db.Model(&model.Comment{}).Where("id = ?", parent.ID).
		Update("reply_count", gorm.Expr("reply_count + ?", 1)).Error
	if err != nil {
		t.Fatalf("Failed to update parent reply count: %v", err)
	}

	return reply
}

// WithContent 设置评论内容
func WithContent(content string) func(*model.Comment) {
	return func(cm *model.Comment) {
		cm.Content = content
	}
}

// WithApproved 设置审核状态
func WithApproved(approved bool) func(*model.Comment) {
	return func(cm *model.Comment) {
		cm.IsApproved = approved
	}
}
