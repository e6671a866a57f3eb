package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dealsplit/internal/config"
	"github.com/dealsplit/internal/constants"
	"github.com/dealsplit/internal/logger"
	"github.com/dealsplit/internal/models"
	"github.com/dealsplit/internal/queue"
	"github.com/dealsplit/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PayoutService 结算单服务
type PayoutService struct {
	payoutRepo     repository.PayoutRepository
	developerRepo  repository.DeveloperRepository
	clientRepo     repository.ClientRepository
	feeService     *FeeService
	dashboard      *DashboardService
	queueClient    *queue.Client
	paymentFeeName string
	export         config.ExportConfig
	now            func() time.Time
}

// NewPayoutService 创建结算单服务
func NewPayoutService(
	payoutRepo repository.PayoutRepository,
	developerRepo repository.DeveloperRepository,
	clientRepo repository.ClientRepository,
	feeService *FeeService,
	dashboard *DashboardService,
	queueClient *queue.Client,
	fees config.FeesConfig,
	export config.ExportConfig,
) *PayoutService {
	return &PayoutService{
		payoutRepo:     payoutRepo,
		developerRepo:  developerRepo,
		clientRepo:     clientRepo,
		feeService:     feeService,
		dashboard:      dashboard,
		queueClient:    queueClient,
		paymentFeeName: fees.PaymentFeeName,
		export:         export,
		now:            time.Now,
	}
}

// PayoutLineItemInput 结算单项目明细输入
type PayoutLineItemInput struct {
	ClientID  uint            `json:"client_id"`
	ProjectID uint            `json:"project_id"`
	Amount    decimal.Decimal `json:"amount"`
}

// PreviewPayoutInput 结算预览输入，Fees 为 nil 时使用内置费用
type PreviewPayoutInput struct {
	LineItems []PayoutLineItemInput `json:"line_items"`
	Fees      []Fee                 `json:"fees"`
}

// CreatePayoutInput 创建结算单输入，Fees 为 nil 时使用内置费用
type CreatePayoutInput struct {
	DeveloperID uint                  `json:"developer_id" binding:"required"`
	LineItems   []PayoutLineItemInput `json:"line_items"`
	Fees        []Fee                 `json:"fees"`
}

// PayoutBoardColumn 看板列
type PayoutBoardColumn struct {
	Status  string          `json:"status"`
	Payouts []models.Payout `json:"payouts"`
}

// Preview 计算费用但不落库
func (s *PayoutService) Preview(input PreviewPayoutInput) (FeeCalculation, error) {
	return CalculateFees(toFeeLineItems(input.LineItems), s.resolveFees(input.Fees))
}

// Create 创建结算单：解析名称快照、计算费用、写入初始时间线
func (s *PayoutService) Create(ctx context.Context, input CreatePayoutInput) (*models.Payout, error) {
	if len(input.LineItems) == 0 {
		return nil, ErrLineItemsRequired
	}
	for i, item := range input.LineItems {
		if item.ClientID == 0 || item.ProjectID == 0 || !item.Amount.IsPositive() {
			return nil, fmt.Errorf("%w: index %d", ErrLineItemInvalid, i)
		}
	}

	developer, err := s.developerRepo.GetByID(input.DeveloperID)
	if err != nil {
		return nil, err
	}
	if developer == nil {
		return nil, ErrDeveloperNotFound
	}

	lineItems, err := s.resolveLineItems(input.LineItems)
	if err != nil {
		return nil, err
	}

	calc, err := CalculateFees(toFeeLineItems(input.LineItems), s.resolveFees(input.Fees))
	if err != nil {
		return nil, err
	}

	now := s.now()
	payout := &models.Payout{
		PayoutNo:      generatePayoutNo(now),
		DeveloperID:   developer.ID,
		DeveloperName: developer.Name,
		GrossTotal:    calc.GrossTotal,
		TotalFees:     calc.TotalFees,
		FinalPayout:   calc.FinalPayout,
		Status:        constants.PayoutStatusNotPaid,
		CreatedAt:     now,
		UpdatedAt:     now,
		LineItems:     lineItems,
		Fees:          toFeeEntries(calc.FeeBreakdown),
		Timeline: []models.PayoutTimelineEntry{
			{Status: constants.PayoutStatusNotPaid, Timestamp: now},
		},
	}
	if err := s.payoutRepo.Create(payout); err != nil {
		return nil, err
	}

	logger.Infow("payout_created",
		"payout_id", payout.ID,
		"payout_no", payout.PayoutNo,
		"developer_id", payout.DeveloperID,
		"gross_total", payout.GrossTotal.String(),
		"final_payout", payout.FinalPayout.String(),
	)
	s.afterMutation(ctx, "payout_created", payout.ID)
	return payout, nil
}

// Get 获取结算单详情
func (s *PayoutService) Get(id uint) (*models.Payout, error) {
	payout, err := s.payoutRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if payout == nil {
		return nil, ErrPayoutNotFound
	}
	return payout, nil
}

// List 结算单列表
func (s *PayoutService) List(filter repository.PayoutListFilter) ([]models.Payout, int64, error) {
	filter.Status = strings.TrimSpace(filter.Status)
	if filter.Status != "" && !IsValidPayoutStatus(filter.Status) {
		return nil, 0, fmt.Errorf("%w: %s", ErrPayoutStatusInvalid, filter.Status)
	}
	filter.Sort = normalizePayoutSort(filter.Sort)
	return s.payoutRepo.List(filter)
}

// Board 按状态分组的结算单看板
func (s *PayoutService) Board(search string) ([]PayoutBoardColumn, error) {
	payouts, _, err := s.payoutRepo.List(repository.PayoutListFilter{
		Search: search,
		Sort:   constants.PayoutSortCreatedDesc,
	})
	if err != nil {
		return nil, err
	}
	statuses := constants.PayoutStatuses()
	columns := make([]PayoutBoardColumn, 0, len(statuses))
	index := make(map[string]int, len(statuses))
	for i, status := range statuses {
		index[status] = i
		columns = append(columns, PayoutBoardColumn{Status: status, Payouts: []models.Payout{}})
	}
	for _, payout := range payouts {
		if i, ok := index[payout.Status]; ok {
			columns[i].Payouts = append(columns[i].Payouts, payout)
		}
	}
	return columns, nil
}

// UpdateStatus 流转结算单状态，在事务内加锁读取并按原状态条件更新
func (s *PayoutService) UpdateStatus(ctx context.Context, id uint, status string) (*models.Payout, error) {
	var (
		updated  models.Payout
		previous string
	)
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		repo := s.payoutRepo.WithTx(tx)
		payout, err := s.loadForUpdate(repo, id)
		if err != nil {
			return err
		}
		previous = payout.Status
		next, err := TransitionPayout(*payout, status, s.now())
		if err != nil {
			return err
		}
		entry := &next.Timeline[len(next.Timeline)-1]
		if err := repo.UpdateStatus(id, previous, next.Status, entry); err != nil {
			if errors.Is(err, repository.ErrPayoutStatusStale) {
				return fmt.Errorf("%w: payout %d is no longer %s", ErrInvalidTransition, id, previous)
			}
			return fmt.Errorf("%w: %v", ErrPayoutUpdateFailed, err)
		}
		updated = next
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Infow("payout_status_changed",
		"payout_id", id,
		"from", previous,
		"to", updated.Status,
	)
	s.afterMutation(ctx, "payout_status_changed", id)
	return &updated, nil
}

// CorrectPaymentFee 修正支付手续费为实际金额
func (s *PayoutService) CorrectPaymentFee(ctx context.Context, id uint, amount decimal.Decimal) (*models.Payout, error) {
	var (
		updated models.Payout
		entry   models.PayoutFeeEntry
	)
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		repo := s.payoutRepo.WithTx(tx)
		payout, err := s.loadForUpdate(repo, id)
		if err != nil {
			return err
		}
		next, err := CorrectPaymentFee(*payout, amount, s.paymentFeeName)
		if err != nil {
			return err
		}
		entry = next.Fees[findPaymentFeeEntry(next.Fees, s.paymentFeeName)]
		if err := repo.UpdateFeeEntry(id, entry, next.TotalFees, next.FinalPayout); err != nil {
			return fmt.Errorf("%w: %v", ErrPayoutUpdateFailed, err)
		}
		updated = next
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Infow("payout_payment_fee_corrected",
		"payout_id", id,
		"fee_name", entry.Name,
		"amount", entry.Amount.String(),
		"final_payout", updated.FinalPayout.String(),
	)
	s.afterMutation(ctx, "payout_payment_fee_corrected", id)
	return &updated, nil
}

func (s *PayoutService) loadForUpdate(repo repository.PayoutRepository, id uint) (*models.Payout, error) {
	payout, err := repo.GetByIDForUpdate(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPayoutFetchFailed, err)
	}
	if payout == nil {
		return nil, ErrPayoutNotFound
	}
	return payout, nil
}

// Delete 物理删除结算单
func (s *PayoutService) Delete(ctx context.Context, id uint) error {
	if _, err := s.Get(id); err != nil {
		return err
	}
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		return s.payoutRepo.WithTx(tx).Delete(id)
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPayoutUpdateFailed, err)
	}
	logger.Infow("payout_deleted", "payout_id", id)
	s.afterMutation(ctx, "payout_deleted", id)
	return nil
}

// afterMutation 结算单变更后使仪表盘缓存失效并入队预热任务，失败只记录日志
func (s *PayoutService) afterMutation(ctx context.Context, reason string, payoutID uint) {
	if s.dashboard == nil {
		return
	}
	version, err := s.dashboard.BumpVersion(ctx)
	if err != nil {
		logger.Warnw("dashboard_version_bump_failed", "reason", reason, "payout_id", payoutID, "error", err)
		return
	}
	if err := s.queueClient.EnqueueDashboardWarmup(queue.DashboardWarmupPayload{
		Reason:   reason,
		PayoutID: payoutID,
		Version:  version,
	}); err != nil {
		logger.Warnw("dashboard_warmup_enqueue_failed", "reason", reason, "payout_id", payoutID, "error", err)
	}
}

func (s *PayoutService) resolveFees(fees []Fee) []Fee {
	if fees == nil {
		return s.feeService.DefaultFees()
	}
	result := make([]Fee, len(fees))
	for i, fee := range fees {
		fee.Name = strings.TrimSpace(fee.Name)
		fee.Kind = strings.ToLower(strings.TrimSpace(fee.Kind))
		result[i] = fee
	}
	return result
}

// resolveLineItems 校验客户与项目并生成名称快照
func (s *PayoutService) resolveLineItems(items []PayoutLineItemInput) ([]models.PayoutLineItem, error) {
	clients := make(map[uint]*models.Client)
	result := make([]models.PayoutLineItem, 0, len(items))
	for i, item := range items {
		client, ok := clients[item.ClientID]
		if !ok {
			loaded, err := s.clientRepo.GetByID(item.ClientID)
			if err != nil {
				return nil, err
			}
			if loaded == nil {
				return nil, fmt.Errorf("%w: %d", ErrClientNotFound, item.ClientID)
			}
			clients[item.ClientID] = loaded
			client = loaded
		}
		project := findProject(client.Projects, item.ProjectID)
		if project == nil {
			return nil, fmt.Errorf("%w: client %d project %d", ErrProjectClientMatch, item.ClientID, item.ProjectID)
		}
		result = append(result, models.PayoutLineItem{
			ClientID:    client.ID,
			ClientName:  client.Name,
			ProjectID:   project.ID,
			ProjectName: project.Name,
			Amount:      models.NewMoneyFromDecimal(item.Amount),
			SortOrder:   i,
		})
	}
	return result, nil
}

func findProject(projects []models.Project, id uint) *models.Project {
	for i := range projects {
		if projects[i].ID == id {
			return &projects[i]
		}
	}
	return nil
}

func toFeeLineItems(items []PayoutLineItemInput) []FeeLineItem {
	result := make([]FeeLineItem, 0, len(items))
	for _, item := range items {
		result = append(result, FeeLineItem{ClientID: item.ClientID, ProjectID: item.ProjectID, Amount: item.Amount})
	}
	return result
}

func toFeeEntries(breakdown []FeeBreakdownEntry) []models.PayoutFeeEntry {
	result := make([]models.PayoutFeeEntry, 0, len(breakdown))
	for i, entry := range breakdown {
		result = append(result, models.PayoutFeeEntry{
			Name:             entry.Name,
			Amount:           entry.Amount,
			Kind:             entry.Kind,
			Value:            entry.Value,
			BasedOnRemainder: entry.BasedOnRemainder,
			SortOrder:        i,
		})
	}
	return result
}

func normalizePayoutSort(sort string) string {
	switch strings.ToLower(strings.TrimSpace(sort)) {
	case constants.PayoutSortGrossAsc:
		return constants.PayoutSortGrossAsc
	case constants.PayoutSortCreatedDesc:
		return constants.PayoutSortCreatedDesc
	case constants.PayoutSortCreatedAsc:
		return constants.PayoutSortCreatedAsc
	default:
		return constants.PayoutSortGrossDesc
	}
}

// generatePayoutNo 生成结算单号：PO + 日期 + 8 位随机串
func generatePayoutNo(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:8]
	return fmt.Sprintf("PO%s%s", now.Format("20060102"), suffix)
}
