package submit

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmehdipour/econnect-gateway/internal/econnect"
	"github.com/jmehdipour/econnect-gateway/internal/model"
	"go.uber.org/zap"
)

var ErrInvalidSubmission = errors.New("invalid submission")

// Gateway is the part of *econnect.Gateway the workflow needs.
type Gateway interface {
	PrepareProcess(ctx context.Context, withAttributes bool, attrs econnect.CustomerAttributes) econnect.Envelope
	CommitProcess(ctx context.Context, jobID string) econnect.Envelope
	AddPBPInputSingleFileToPreparedProcess(ctx context.Context, jobID string, file []byte, fileName string, withAttributes bool, attrs econnect.CustomerAttributes) econnect.Envelope
	AddPBPInputFileSplitOnFixedPageToPreparedProcess(ctx context.Context, jobID string, file []byte, fileName string, pagesPerDocument int, withAttributes bool, attrs econnect.CustomerAttributes) econnect.Envelope
	AddPBPInputFileSplitOnMarkToPreparedProcess(ctx context.Context, jobID string, file []byte, fileName, textMark string, withAttributes bool, attrs econnect.CustomerAttributes) econnect.Envelope
	AddPBPInputCsvTemplateToPreparedProcess(ctx context.Context, jobID string, file []byte, fileNameCsv, fileNameTemplate string, template []byte, withAttributes bool, attrs econnect.CustomerAttributes) econnect.Envelope
	AddPBPFileAsAttachmentToPreparedProcess(ctx context.Context, jobID string, file []byte, fileName string, withAttributes bool, attrs econnect.CustomerAttributes) econnect.Envelope
	AddPBPFileAsLetterPaperToPreparedProcess(ctx context.Context, jobID string, file []byte, fileName string, withAttributes bool, attrs econnect.CustomerAttributes) econnect.Envelope
	AddPBPFileAsAttachmentToPreparedProcessAndInput(ctx context.Context, jobID string, file []byte, fileName, inputID string, withAttributes bool, attrs econnect.CustomerAttributes) econnect.Envelope
	AddPBPFileAsLetterPaperToPreparedProcessAndInput(ctx context.Context, jobID string, file []byte, fileName, inputID string, withAttributes bool, attrs econnect.CustomerAttributes) econnect.Envelope
	SetPortalProcessJobStatusCodeByPortalProcessJobID(ctx context.Context, jobID, statusCode string) econnect.Envelope
}

var _ Gateway = (*econnect.Gateway)(nil)

// StepError reports the first remote step that failed. Steps before it
// already happened on the remote side; the job is left uncommitted.
type StepError struct {
	Step     string
	JobID    string
	Envelope econnect.Envelope
}

func (e *StepError) Error() string {
	return fmt.Sprintf("submit: %s failed: %s", e.Step, e.Envelope.Message())
}

type Options struct {
	// ReleaseOnCommit sets DISTRIBUTION_READY_FOR after commit when the job
	// was prepared with pinProcessSilent=FALSE.
	ReleaseOnCommit bool
}

type Service struct {
	gw   Gateway
	opts Options
	log  *zap.Logger
}

func New(gw Gateway, opts Options, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{gw: gw, opts: opts, log: log}
}

// Validate checks a submission before anything is sent.
func Validate(s model.Submission) error {
	if len(s.Documents) == 0 {
		return fmt.Errorf("%w: no documents", ErrInvalidSubmission)
	}
	for i, d := range s.Documents {
		if d.File.Name == "" || len(d.File.Content) == 0 {
			return fmt.Errorf("%w: document %d: file name and content are required", ErrInvalidSubmission, i)
		}
		kind, ok := model.ParseDocumentKind(string(d.Kind))
		if !ok {
			return fmt.Errorf("%w: document %d: unknown kind %q", ErrInvalidSubmission, i, d.Kind)
		}
		switch kind {
		case model.DocumentFixedPages:
			if d.PagesPerDocument <= 0 {
				return fmt.Errorf("%w: document %d: pages_per_document must be positive", ErrInvalidSubmission, i)
			}
		case model.DocumentTextMark:
			if d.TextMark == "" {
				return fmt.Errorf("%w: document %d: text_mark is required", ErrInvalidSubmission, i)
			}
		case model.DocumentCSVTemplate:
			if d.Template == nil || d.Template.Name == "" || len(d.Template.Content) == 0 {
				return fmt.Errorf("%w: document %d: template is required", ErrInvalidSubmission, i)
			}
		}
	}
	for i, x := range append(append([]model.Extra{}, s.Attachments...), s.LetterPaper...) {
		if x.File.Name == "" || len(x.File.Content) == 0 {
			return fmt.Errorf("%w: extra %d: file name and content are required", ErrInvalidSubmission, i)
		}
	}
	return nil
}

// Submit runs prepare, documents, attachments, letter paper and commit in
// that order and stops at the first failed envelope.
func (s *Service) Submit(ctx context.Context, sub model.Submission) (model.SubmissionResult, error) {
	var res model.SubmissionResult

	if err := Validate(sub); err != nil {
		return res, err
	}

	step := func(op string, env econnect.Envelope) error {
		if env.Failed() {
			return &StepError{Step: op, JobID: res.JobID, Envelope: env}
		}
		res.Steps = append(res.Steps, model.StepResult{Operation: op, Result: env.Result})
		return nil
	}

	env := s.gw.PrepareProcess(ctx, sub.WithAttributes, sub.Attributes)
	if err := step(econnect.OpPrepareProcess, env); err != nil {
		return res, err
	}
	jobID, ok := env.String()
	if !ok || jobID == "" {
		return res, &StepError{Step: econnect.OpPrepareProcess, Envelope: env}
	}
	res.JobID = jobID

	for _, d := range sub.Documents {
		op, env := s.addDocument(ctx, jobID, d)
		if err := step(op, env); err != nil {
			return res, err
		}
	}

	for _, x := range sub.Attachments {
		op := econnect.OpAddPBPFileAsAttachmentToPreparedProcess
		var env econnect.Envelope
		if x.InputID != "" {
			op = econnect.OpAddPBPFileAsAttachmentToPreparedProcessAndInput
			env = s.gw.AddPBPFileAsAttachmentToPreparedProcessAndInput(ctx, jobID, x.File.Content, x.File.Name, x.InputID, x.WithAttributes, x.Attributes)
		} else {
			env = s.gw.AddPBPFileAsAttachmentToPreparedProcess(ctx, jobID, x.File.Content, x.File.Name, x.WithAttributes, x.Attributes)
		}
		if err := step(op, env); err != nil {
			return res, err
		}
	}

	for _, x := range sub.LetterPaper {
		op := econnect.OpAddPBPFileAsLetterPaperToPreparedProcess
		var env econnect.Envelope
		if x.InputID != "" {
			op = econnect.OpAddPBPFileAsLetterPaperToPreparedProcessAndInput
			env = s.gw.AddPBPFileAsLetterPaperToPreparedProcessAndInput(ctx, jobID, x.File.Content, x.File.Name, x.InputID, x.WithAttributes, x.Attributes)
		} else {
			env = s.gw.AddPBPFileAsLetterPaperToPreparedProcess(ctx, jobID, x.File.Content, x.File.Name, x.WithAttributes, x.Attributes)
		}
		if err := step(op, env); err != nil {
			return res, err
		}
	}

	env = s.gw.CommitProcess(ctx, jobID)
	if err := step(econnect.OpCommitProcess, env); err != nil {
		return res, err
	}
	res.OrderID, _ = env.String()

	if s.opts.ReleaseOnCommit && needsRelease(sub) {
		env = s.gw.SetPortalProcessJobStatusCodeByPortalProcessJobID(ctx, jobID, econnect.JobStatusDistributionReadyFor)
		if err := step(econnect.OpSetPortalProcessJobStatusCodeByPortalProcessJobId, env); err != nil {
			return res, err
		}
		res.Released = true
	}

	s.log.Info("submission committed",
		zap.String("reference", sub.Reference),
		zap.String("job_id", res.JobID),
		zap.String("order_id", res.OrderID),
		zap.Int("documents", len(sub.Documents)),
		zap.Bool("released", res.Released),
	)

	return res, nil
}

func (s *Service) addDocument(ctx context.Context, jobID string, d model.Document) (string, econnect.Envelope) {
	kind, _ := model.ParseDocumentKind(string(d.Kind))
	switch kind {
	case model.DocumentFixedPages:
		return econnect.OpAddPBPInputFileSplitOnFixedPageToPreparedProcess,
			s.gw.AddPBPInputFileSplitOnFixedPageToPreparedProcess(ctx, jobID, d.File.Content, d.File.Name, d.PagesPerDocument, d.WithAttributes, d.Attributes)
	case model.DocumentTextMark:
		return econnect.OpAddPBPInputFileSplitOnMarkToPreparedProcess,
			s.gw.AddPBPInputFileSplitOnMarkToPreparedProcess(ctx, jobID, d.File.Content, d.File.Name, d.TextMark, d.WithAttributes, d.Attributes)
	case model.DocumentCSVTemplate:
		return econnect.OpAddPBPInputCsvTemplateToPreparedProcess,
			s.gw.AddPBPInputCsvTemplateToPreparedProcess(ctx, jobID, d.File.Content, d.File.Name, d.Template.Name, d.Template.Content, d.WithAttributes, d.Attributes)
	default:
		return econnect.OpAddPBPInputSingleFileToPreparedProcess,
			s.gw.AddPBPInputSingleFileToPreparedProcess(ctx, jobID, d.File.Content, d.File.Name, d.WithAttributes, d.Attributes)
	}
}

// needsRelease mirrors the provider rule: a job waits for release when
// pinProcessSilent is FALSE or was not sent at all.
func needsRelease(sub model.Submission) bool {
	if !sub.WithAttributes {
		return true
	}
	merged := econnect.MergeCustomerAttributes(sub.Attributes)
	return merged[econnect.AttrPinProcessSilent] == econnect.SilentFalse
}
