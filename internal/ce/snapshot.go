package ce

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/RotationHub/CECert/internal/model"
)

// SnapshotPayload is the frozen evidence stored with an approved certificate.
type SnapshotPayload struct {
	CertificateID string                      `json:"certificate_id"`
	Policy        model.UniversityCePolicy    `json:"policy"`
	Eligibility   Eligibility                 `json:"eligibility"`
	Application   *model.Application          `json:"application"`
	Evaluations   []model.Evaluation          `json:"evaluations"`
	HourLogs      []model.HourLog             `json:"hour_logs"`
	Credentials   []model.PreceptorCredential `json:"preceptor_credentials"`
	CapturedAt    time.Time                   `json:"captured_at"`
}

// HashPayload returns "sha256:<hex>" over the json bytes and the bytes themselves.
func HashPayload(v any) (string, []byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", nil, err
	}
	sum := sha256.Sum256(b)
	return "sha256:" + hex.EncodeToString(sum[:]), b, nil
}

// BuildSnapshot freezes the evidence into a snapshot row ready to be saved.
func BuildSnapshot(certificateID string, policy *model.UniversityCePolicy, eligibility Eligibility, ev Evidence, credentials []model.PreceptorCredential, capturedAt time.Time) (*model.CeEvidenceSnapshot, error) {
	payload := SnapshotPayload{
		CertificateID: certificateID,
		Policy:        *policy,
		Eligibility:   eligibility,
		Application:   ev.Application,
		Evaluations:   ev.Evaluations,
		HourLogs:      ev.HourLogs,
		Credentials:   credentials,
		CapturedAt:    capturedAt,
	}

	// nested associations only add noise to the frozen copy
	payload.Policy.University = nil
	if payload.Application != nil {
		app := *payload.Application
		app.Student, app.Preceptor, app.University = nil, nil, nil
		payload.Application = &app
	}

	hash, b, err := HashPayload(payload)
	if err != nil {
		return nil, err
	}

	return &model.CeEvidenceSnapshot{
		Payload:       b,
		PayloadHash:   hash,
		PolicyVersion: policy.Version,
		CapturedAt:    capturedAt,
		CertificateID: certificateID,
	}, nil
}

// VerifySnapshot recomputes the hash of a stored snapshot.
func VerifySnapshot(s *model.CeEvidenceSnapshot) bool {
	sum := sha256.Sum256(s.Payload)
	return s.PayloadHash == "sha256:"+hex.EncodeToString(sum[:])
}
