package devkeeper

import (
	"encoding/json"
	"strconv"

	"github.com/gin-gonic/gin"

	"keeper-client/internal/handler/response"
	"keeper-client/pkg/errno"
	"keeper-client/pkg/keeper"
	"keeper-client/pkg/monitor"
)

// Handler 把开发 Keeper 暴露为 HTTP 接口
type Handler struct {
	keeper *Keeper
}

func NewHandler(k *Keeper) *Handler {
	return &Handler{keeper: k}
}

// Ready 就绪探针。开发节点起来即就绪, 客户端靠它完成一次性握手。
func (h *Handler) Ready(c *gin.Context) {
	response.Success(c, gin.H{"ready": true})
}

// State 返回当前公开状态快照
func (h *Handler) State(c *gin.Context) {
	monitor.Business.StatePollsTotal.Inc()
	response.Success(c, h.keeper.Snapshot())
}

// Auth 站点授权
func (h *Handler) Auth(c *gin.Context) {
	var input keeper.AuthInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, errno.ErrBind)
		return
	}
	monitor.Business.AuthRequestsTotal.Inc()

	result, err := h.keeper.Auth(input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// SignTx 单笔交易签名 (publish 变体只是开发节点上的别名)
func (h *Handler) SignTx(c *gin.Context) {
	var env keeper.Envelope
	if err := c.ShouldBindJSON(&env); err != nil {
		response.Error(c, errno.ErrBind)
		return
	}
	monitor.Business.SignRequestsTotal.WithLabelValues(strconv.Itoa(env.Type)).Inc()

	signed, err := h.keeper.SignEnvelope(env)
	if err != nil {
		monitor.Business.SignRejectedTotal.WithLabelValues("locked").Inc()
		response.Error(c, err)
		return
	}
	response.Success(c, json.RawMessage(signed))
}

// SignPackage 打包签名
func (h *Handler) SignPackage(c *gin.Context) {
	var envs []keeper.Envelope
	if err := c.ShouldBindJSON(&envs); err != nil {
		response.Error(c, errno.ErrBind)
		return
	}
	monitor.Business.SignRequestsTotal.WithLabelValues("package").Inc()

	signed, err := h.keeper.SignPackage(envs)
	if err != nil {
		monitor.Business.SignRejectedTotal.WithLabelValues("locked").Inc()
		response.Error(c, err)
		return
	}
	response.Success(c, signed)
}

// SignText 订单/撤单/通用签名请求, 结果是字符串
func (h *Handler) SignText(c *gin.Context) {
	var env keeper.Envelope
	if err := c.ShouldBindJSON(&env); err != nil {
		response.Error(c, errno.ErrBind)
		return
	}
	monitor.Business.SignRequestsTotal.WithLabelValues(strconv.Itoa(env.Type)).Inc()

	signed, err := h.keeper.SignText(env)
	if err != nil {
		monitor.Business.SignRejectedTotal.WithLabelValues("locked").Inc()
		response.Error(c, err)
		return
	}
	response.Success(c, signed)
}

// Lock / Unlock 开发专用: 模拟用户锁定钱包
func (h *Handler) Lock(c *gin.Context) {
	h.keeper.SetLocked(true)
	response.Success(c, gin.H{"locked": true})
}

func (h *Handler) Unlock(c *gin.Context) {
	h.keeper.SetLocked(false)
	response.Success(c, gin.H{"locked": false})
}
