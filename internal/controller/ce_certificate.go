package controller

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/RotationHub/CECert/internal/ce"
	ceworkflow "github.com/RotationHub/CECert/internal/ce_workflow"
	"github.com/RotationHub/CECert/internal/constant"
	"github.com/RotationHub/CECert/internal/model"
	"github.com/RotationHub/CECert/internal/util"
	"github.com/gin-gonic/gin"
)

const DOWNLOAD_URL_EXPIRY = 15 * time.Minute

type CeCertificateController struct {
	*baseController
}

type GetCeCertificatesRequest struct {
	Status   string `json:"status" form:"status" binding:"omitempty,oneof=pending approved issued rejected revoked"`
	Page     uint   `json:"page" form:"page" binding:"omitempty,gte=1,lte=1000000"`
	PageSize uint   `json:"pageSize" form:"pageSize" binding:"omitempty,gte=1"`
}

func (cc CeCertificateController) GetCertificates(ctx *gin.Context) {
	var params GetCeCertificatesRequest

	actor, err := cc.getActor(ctx)
	if err != nil {
		util.ResponseFailed(ctx, http.StatusUnauthorized, "Unauthorized", util.GenerateErrorMessages(err), nil)
		return
	}

	if err := ctx.ShouldBindQuery(&params); err != nil {
		util.ResponseFailed(ctx, bindStatus(err), "Invalid request", util.GenerateErrorMessages(err), nil)
		return
	}

	params.Page, params.PageSize = util.NormalizePage(params.Page, params.PageSize)

	certificates, total, err := cc.app.Workflow.List(ctx, actor, ceworkflow.ListParams{
		Status:   params.Status,
		Page:     params.Page,
		PageSize: params.PageSize,
	})
	if err != nil {
		cc.responseCeError(ctx, "Failed to get CE certificates", "status", err)
		return
	}

	if len(certificates) == 0 {
		certificates = []model.CeCertificate{}
	}

	pagination := util.NewPagination(params.Page, params.PageSize, total)
	util.ResponseSuccess(ctx, gin.H{
		"certificates": certificates,
		"total":        pagination.Total,
		"page":         pagination.Page,
		"pageSize":     pagination.PageSize,
		"totalPage":    pagination.TotalPage,
		"status":       params.Status,
	})
}

func (cc CeCertificateController) RequestCertificate(ctx *gin.Context) {
	type Request struct {
		ApplicationID string `json:"application_id" form:"application_id" binding:"required,strNotEmpty,uuid"`
	}
	var body Request

	actor, err := cc.getActor(ctx)
	if err != nil {
		util.ResponseFailed(ctx, http.StatusUnauthorized, "Unauthorized", util.GenerateErrorMessages(err), nil)
		return
	}

	if err := ctx.ShouldBindJSON(&body); err != nil {
		util.ResponseFailed(ctx, bindStatus(err), "Invalid request", util.GenerateErrorMessages(err), nil)
		return
	}

	result, err := cc.app.Workflow.Request(ctx, actor, body.ApplicationID)
	if err != nil {
		cc.responseCeError(ctx, "Failed to request CE certificate", "application_id", err)
		return
	}

	util.ResponseSuccessWithStatus(ctx, http.StatusCreated, gin.H{
		"certificate": result.Certificate,
		"issued":      result.Issued,
	})
}

func (cc CeCertificateController) GetCertificate(ctx *gin.Context) {
	id := ctx.Params.ByName("id")
	if id == "" {
		util.ResponseFailed(ctx, http.StatusBadRequest, "Certificate id is required", util.GenerateErrorMessages(errors.New(ErrIdRequired), "id"), nil)
		return
	}

	actor, err := cc.getActor(ctx)
	if err != nil {
		util.ResponseFailed(ctx, http.StatusUnauthorized, "Unauthorized", util.GenerateErrorMessages(err), nil)
		return
	}

	detail, err := cc.app.Workflow.Get(ctx, actor, id)
	if err != nil {
		cc.responseCeError(ctx, "Failed to get CE certificate", "id", err)
		return
	}

	var snapshot gin.H
	if detail.Snapshot != nil {
		snapshot = gin.H{
			"payload_hash":   detail.Snapshot.PayloadHash,
			"policy_version": detail.Snapshot.PolicyVersion,
			"captured_at":    detail.Snapshot.CapturedAt,
			"intact":         ce.VerifySnapshot(detail.Snapshot),
		}
	}

	events := detail.AuditEvents
	if events == nil {
		events = []model.CeAuditEvent{}
	}

	// only issued certificates the actor may download get a link
	var downloadUrl string
	if detail.Certificate.Status == constant.CeStatusIssued {
		url, err := cc.app.Workflow.DownloadURL(ctx, actor, id, DOWNLOAD_URL_EXPIRY)
		if err == nil {
			downloadUrl = url
		} else if statusOf(err) == http.StatusInternalServerError {
			cc.app.Logger.Errorf("Failed to presign certificate %s: %v", id, err)
		}
	}

	util.ResponseSuccess(ctx, gin.H{
		"certificate":  detail.Certificate,
		"audit_events": events,
		"snapshot":     snapshot,
		"download_url": downloadUrl,
	})
}

// ApproveCertificate answers 200 once issued and 202 when the pdf was handed to the render queue.
func (cc CeCertificateController) ApproveCertificate(ctx *gin.Context) {
	id := ctx.Params.ByName("id")
	if id == "" {
		util.ResponseFailed(ctx, http.StatusBadRequest, "Certificate id is required", util.GenerateErrorMessages(errors.New(ErrIdRequired), "id"), nil)
		return
	}

	actor, err := cc.getActor(ctx)
	if err != nil {
		util.ResponseFailed(ctx, http.StatusUnauthorized, "Unauthorized", util.GenerateErrorMessages(err), nil)
		return
	}

	result, err := cc.app.Workflow.Approve(ctx, actor, id)
	if err != nil {
		cc.responseCeError(ctx, "Failed to approve CE certificate", "id", err)
		return
	}

	code := http.StatusOK
	if !result.Issued {
		code = http.StatusAccepted
	}

	util.ResponseSuccessWithStatus(ctx, code, gin.H{
		"certificate": result.Certificate,
		"issued":      result.Issued,
	})
}

func (cc CeCertificateController) RejectCertificate(ctx *gin.Context) {
	type Request struct {
		RejectionReason string `json:"rejection_reason" form:"rejection_reason" binding:"required,strNotEmpty,cmax=2000"`
	}
	var body Request

	id := ctx.Params.ByName("id")
	if id == "" {
		util.ResponseFailed(ctx, http.StatusBadRequest, "Certificate id is required", util.GenerateErrorMessages(errors.New(ErrIdRequired), "id"), nil)
		return
	}

	actor, err := cc.getActor(ctx)
	if err != nil {
		util.ResponseFailed(ctx, http.StatusUnauthorized, "Unauthorized", util.GenerateErrorMessages(err), nil)
		return
	}

	if err := ctx.ShouldBindJSON(&body); err != nil {
		util.ResponseFailed(ctx, bindStatus(err), "Rejection reason is required", util.GenerateErrorMessages(err, map[string]string{"RejectionReason": "rejection_reason"}), nil)
		return
	}

	cert, err := cc.app.Workflow.Reject(ctx, actor, id, body.RejectionReason)
	if err != nil {
		cc.responseCeError(ctx, "Failed to reject CE certificate", "id", err)
		return
	}

	util.ResponseSuccess(ctx, gin.H{
		"certificate": cert,
	})
}

func (cc CeCertificateController) RevokeCertificate(ctx *gin.Context) {
	type Request struct {
		RevocationReason string `json:"revocation_reason" form:"revocation_reason" binding:"required,strNotEmpty,cmax=2000"`
	}
	var body Request

	id := ctx.Params.ByName("id")
	if id == "" {
		util.ResponseFailed(ctx, http.StatusBadRequest, "Certificate id is required", util.GenerateErrorMessages(errors.New(ErrIdRequired), "id"), nil)
		return
	}

	actor, err := cc.getActor(ctx)
	if err != nil {
		util.ResponseFailed(ctx, http.StatusUnauthorized, "Unauthorized", util.GenerateErrorMessages(err), nil)
		return
	}

	if err := ctx.ShouldBindJSON(&body); err != nil {
		util.ResponseFailed(ctx, bindStatus(err), "Revocation reason is required", util.GenerateErrorMessages(err, map[string]string{"RevocationReason": "revocation_reason"}), nil)
		return
	}

	cert, err := cc.app.Workflow.Revoke(ctx, actor, id, body.RevocationReason)
	if err != nil {
		cc.responseCeError(ctx, "Failed to revoke CE certificate", "id", err)
		return
	}

	util.ResponseSuccess(ctx, gin.H{
		"certificate": cert,
	})
}

// DownloadCertificate streams the pdf of an issued certificate.
func (cc CeCertificateController) DownloadCertificate(ctx *gin.Context) {
	id := ctx.Params.ByName("id")
	if id == "" {
		util.ResponseFailed(ctx, http.StatusBadRequest, "Certificate id is required", util.GenerateErrorMessages(errors.New(ErrIdRequired), "id"), nil)
		return
	}

	actor, err := cc.getActor(ctx)
	if err != nil {
		util.ResponseFailed(ctx, http.StatusUnauthorized, "Unauthorized", util.GenerateErrorMessages(err), nil)
		return
	}

	reader, obj, cert, err := cc.app.Workflow.Download(ctx, actor, id)
	if err != nil {
		cc.responseCeError(ctx, "Failed to download CE certificate", "id", err)
		return
	}
	defer reader.Close()

	contentType := obj.ContentType
	if contentType == "" {
		contentType = "application/pdf"
	}

	ctx.DataFromReader(http.StatusOK, obj.Size, contentType, reader, map[string]string{
		"Content-Disposition": fmt.Sprintf(`attachment; filename="%s.pdf"`, cert.CertificateNumber),
	})
}
