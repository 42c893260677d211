package anchor

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/pilacorp/go-trust-sdk/credential"
	"github.com/pilacorp/go-trust-sdk/credential/common/dto"
	"github.com/pilacorp/go-trust-sdk/credential/common/logging"
)

var logger = logging.New("anchor")

// Opt configures an anchoring operation.
type Opt func(*options)

type options struct {
	includeProof bool
	addEvidence  bool
}

// WithProofDigest includes the credential's proof block in the anchored
// digest.
func WithProofDigest() Opt {
	return func(o *options) {
		o.includeProof = true
	}
}

// WithoutEvidence anchors the credential without attaching an evidence
// entry to the returned copy.
func WithoutEvidence() Opt {
	return func(o *options) {
		o.addEvidence = false
	}
}

// Result is the outcome of anchoring a credential to one chain.
type Result struct {
	Ref        Ref
	Credential *credential.Credential
	Digest     string
}

// MultiResult is the outcome of anchoring a credential to several chains
// at once.
type MultiResult struct {
	Refs       []Ref
	Credential *credential.Credential
	Digest     string
}

// Service anchors credentials through a chain registry and verifies
// anchored evidence.
type Service struct {
	registry *Registry
}

// NewService creates an anchor service over the given chain registry.
func NewService(registry *Registry) *Service {
	return &Service{registry: registry}
}

// AnchorCredential computes the credential's digest, anchors it to the
// given chain, and returns the anchor reference together with a
// credential copy carrying the anchor evidence (unless WithoutEvidence
// is set). The input credential is never mutated.
func (s *Service) AnchorCredential(ctx context.Context, cred *credential.Credential, chainID string, opts ...Opt) (*Result, error) {
	o := &options{addEvidence: true}
	for _, opt := range opts {
		opt(o)
	}

	digest, err := ComputeDigest(cred, digestOpts(o)...)
	if err != nil {
		return nil, fmt.Errorf("failed to compute credential digest: %w", err)
	}

	ref, err := s.registry.Anchor(ctx, chainID, Payload{CredentialID: cred.ID(), Digest: digest})
	if err != nil {
		return nil, fmt.Errorf("failed to anchor credential '%s': %w", cred.ID(), err)
	}

	logger.Debugw("anchored credential", "credential", cred.ID(), "chain", chainID, "tx", ref.TxRef)

	updated := cred

	if o.addEvidence {
		updated, err = cred.WithEvidence(evidenceFor(ref, digest, o.includeProof))
		if err != nil {
			return nil, fmt.Errorf("failed to attach anchor evidence: %w", err)
		}
	}

	return &Result{Ref: ref, Credential: updated, Digest: digest}, nil
}

// AnchorToChains anchors the credential to every listed chain
// concurrently. Evidence is attached only after every chain write
// succeeded: a failure on any chain returns an error and leaves no
// partially-evidenced credential behind.
func (s *Service) AnchorToChains(ctx context.Context, cred *credential.Credential, chainIDs []string, opts ...Opt) (*MultiResult, error) {
	if len(chainIDs) == 0 {
		return nil, fmt.Errorf("no chain ids given")
	}

	o := &options{addEvidence: true}
	for _, opt := range opts {
		opt(o)
	}

	digest, err := ComputeDigest(cred, digestOpts(o)...)
	if err != nil {
		return nil, fmt.Errorf("failed to compute credential digest: %w", err)
	}

	payload := Payload{CredentialID: cred.ID(), Digest: digest}

	var (
		mu   sync.Mutex
		refs []Ref
	)

	g, gctx := errgroup.WithContext(ctx)

	for _, chainID := range chainIDs {
		g.Go(func() error {
			ref, err := s.registry.Anchor(gctx, chainID, payload)
			if err != nil {
				return fmt.Errorf("failed to anchor credential '%s' to chain '%s': %w", cred.ID(), chainID, err)
			}

			mu.Lock()
			refs = append(refs, ref)
			mu.Unlock()

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(refs, func(i, j int) bool { return refs[i].ChainID < refs[j].ChainID })

	updated := cred

	if o.addEvidence {
		for _, ref := range refs {
			updated, err = updated.WithEvidence(evidenceFor(ref, digest, o.includeProof))
			if err != nil {
				return nil, fmt.Errorf("failed to attach anchor evidence: %w", err)
			}
		}
	}

	return &MultiResult{Refs: refs, Credential: updated, Digest: digest}, nil
}

// VerifyAnchoredCredential checks the credential's anchor evidence for
// the given chain against the on-chain record. It returns false when no
// matching evidence exists or when the anchored digest does not match
// the re-derived one. Infrastructure failures (no registered client,
// chain read errors) are returned as errors, never as false.
func (s *Service) VerifyAnchoredCredential(ctx context.Context, cred *credential.Credential, chainID string) (bool, error) {
	ev, ok := findAnchorEvidence(cred, chainID)
	if !ok {
		return false, nil
	}

	payload, err := s.registry.Read(ctx, refFromEvidence(ev))
	if err != nil {
		return false, fmt.Errorf("failed to read anchor on chain '%s': %w", chainID, err)
	}

	if payload.Digest != ev.Digest {
		return false, nil
	}

	var digestOptions []DigestOpt
	if ev.IncludesProof {
		digestOptions = append(digestOptions, WithProof())
	}

	return VerifyDigest(cred, ev.Digest, digestOptions...)
}

// AnchorReference returns the anchor reference embedded in the
// credential's evidence for the given chain. It is a pure lookup with no
// side effects.
func (s *Service) AnchorReference(cred *credential.Credential, chainID string) (*Ref, bool) {
	ev, ok := findAnchorEvidence(cred, chainID)
	if !ok {
		return nil, false
	}

	ref := refFromEvidence(ev)

	return &ref, true
}

func digestOpts(o *options) []DigestOpt {
	if o.includeProof {
		return []DigestOpt{WithProof()}
	}

	return nil
}

func evidenceFor(ref Ref, digest string, includesProof bool) dto.Evidence {
	return dto.Evidence{
		ID:            "urn:uuid:" + uuid.NewString(),
		Type:          dto.EvidenceTypeBlockchainAnchor,
		ChainID:       ref.ChainID,
		Digest:        digest,
		TxRef:         ref.TxRef,
		Address:       ref.Address,
		IncludesProof: includesProof,
	}
}

func findAnchorEvidence(cred *credential.Credential, chainID string) (dto.Evidence, bool) {
	for _, ev := range cred.Evidence() {
		if ev.Type == dto.EvidenceTypeBlockchainAnchor && ev.ChainID == chainID {
			return ev, true
		}
	}

	return dto.Evidence{}, false
}

func refFromEvidence(ev dto.Evidence) Ref {
	return Ref{ChainID: ev.ChainID, TxRef: ev.TxRef, Address: ev.Address}
}
