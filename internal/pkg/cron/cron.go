package cron

import (
	"log"
	"time"

	"github.com/qs3c/tutor_go_server/internal/repository"
)

// Service 周期性对账：重算冗余计数、清理孤儿回复。
// 冗余计数在正常路径上与数据行同事务维护，这里兜底进程崩溃等异常留下的偏差。
type Service struct {
	commentRepo *repository.CommentRepository
	contentRepo *repository.ContentRepository
	interval    time.Duration
	stopChan    chan struct{}
}

func NewService(
	commentRepo *repository.CommentRepository,
	contentRepo *repository.ContentRepository,
	intervalMinutes int,
) *Service {
	if intervalMinutes <= 0 {
		intervalMinutes = 60
	}
	return &Service{
		commentRepo: commentRepo,
		contentRepo: contentRepo,
		interval:    time.Duration(intervalMinutes) * time.Minute,
		stopChan:    make(chan struct{}),
	}
}

// Start 启动定时任务
func (s *Service) Start() {
	go s.runReconcile()
	log.Println("Cron service started (comment counter reconcile + orphan sweep)")
}

// Stop 停止定时任务
func (s *Service) Stop() {
	close(s.stopChan)
	log.Println("Cron service stopped")
}

func (s *Service) runReconcile() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.reconcileAll()
		}
	}
}

func (s *Service) reconcileAll() {
	s.sweepOrphans()

	if err := s.commentRepo.ReconcileCounters(); err != nil {
		log.Printf("Reconcile comment counters failed: %v", err)
	}
	if err := s.contentRepo.ReconcileCommentCounts(); err != nil {
		log.Printf("Reconcile content comment counts failed: %v", err)
	}
}

// sweepOrphans 清理父评论已不存在的回复子树
// （级联删除与并发新增回复竞争时可能产生，见评论服务的删除逻辑）
func (s *Service) sweepOrphans() {
	ids, err := s.commentRepo.FindOrphanIDs()
	if err != nil {
		log.Printf("Orphan scan failed: %v", err)
		return
	}
	if len(ids) == 0 {
		return
	}

	log.Printf("Orphan sweep: found %d orphaned replies: %v", len(ids), ids)
	for _, id := range ids {
		if _, err := s.commentRepo.DeleteSubtree(id); err != nil {
			log.Printf("Orphan sweep: failed to delete subtree %d: %v", id, err)
		}
	}
}

// RunNow 立即执行一次对账（测试或手动触发用）
func (s *Service) RunNow() {
	s.reconcileAll()
}
