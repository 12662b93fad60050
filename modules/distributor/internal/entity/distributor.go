package entity

import (
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gaze-network/distributor-network/common/errs"
)

type Role string

const (
	RoleDistributor Role = "distributor"
	RoleAdmin       Role = "admin"
)

func (r Role) IsValid() bool {
	return r == RoleDistributor || r == RoleAdmin
}

type RoleType string

const (
	RoleTypeCaptain RoleType = "captain"
	RoleTypeCrew    RoleType = "crew"
	RoleTypeAdmin   RoleType = "admin"
)

func (r RoleType) IsValid() bool {
	return r == RoleTypeCaptain || r == RoleTypeCrew || r == RoleTypeAdmin
}

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

func (s Status) IsValid() bool {
	return s == StatusPending || s == StatusApproved || s == StatusRejected
}

// RegistrationDateLayout is the layout of Distributor.RegistrationDate.
const RegistrationDateLayout = "2006-01-02"

// Distributor is a node of the referral tree.
type Distributor struct {
	ID            string
	WalletAddress string
	ReferralCode  string
	Role          Role
	RoleType      RoleType
	Status        Status

	PersonalPoints   int64
	CommissionPoints int64
	TotalPoints      int64

	// UplineID is empty for roots (captains and admins).
	UplineID string

	CreatedAt        time.Time
	RegistrationDate string
}

func (d Distributor) HasUpline() bool {
	return d.UplineID != ""
}

func (d Distributor) IsApproved() bool {
	return d.Status == StatusApproved
}

// Validate rejects rows that break the distributor invariants.
func (d Distributor) Validate() error {
	var errList []error
	if d.ID == "" {
		errList = append(errList, errors.New("id is empty"))
	}
	if d.WalletAddress == "" || d.WalletAddress != strings.ToLower(d.WalletAddress) {
		errList = append(errList, errors.Newf("wallet address %q is not normalized", d.WalletAddress))
	}
	if d.ReferralCode == "" {
		errList = append(errList, errors.New("referral code is empty"))
	}
	if !d.Role.IsValid() {
		errList = append(errList, errors.Newf("unknown role %q", d.Role))
	}
	if !d.RoleType.IsValid() {
		errList = append(errList, errors.Newf("unknown role type %q", d.RoleType))
	}
	if !d.Status.IsValid() {
		errList = append(errList, errors.Newf("unknown status %q", d.Status))
	}
	if d.PersonalPoints < 0 || d.CommissionPoints < 0 {
		errList = append(errList, errors.Newf("negative points (personal=%d, commission=%d)", d.PersonalPoints, d.CommissionPoints))
	}
	if d.TotalPoints != d.PersonalPoints+d.CommissionPoints {
		errList = append(errList, errors.Newf("total points %d != personal %d + commission %d", d.TotalPoints, d.PersonalPoints, d.CommissionPoints))
	}
	if d.UplineID != "" && d.UplineID == d.ID {
		errList = append(errList, errors.New("distributor is its own upline"))
	}
	if err := errors.Join(errList...); err != nil {
		return errors.Wrapf(err, "invalid distributor %q", d.ID)
	}
	return nil
}

// NormalizeWalletAddress validates a hex wallet address and returns it lowercased.
func NormalizeWalletAddress(address string) (string, error) {
	address = strings.TrimSpace(address)
	if !common.IsHexAddress(address) {
		return "", errs.NewPublicError(errs.InvalidArgument, "invalid wallet address")
	}
	return strings.ToLower(common.HexToAddress(address).Hex()), nil
}
