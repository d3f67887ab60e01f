package model

import "gorm.io/gorm"

// Branch is a main examination track (e.g. Nayab Subba, Kharidar,
// Engineering). Some branches carry specializations as sub-branches.
// swagger:model Branch
type Branch struct {
	BaseModel
	NameEN         string `gorm:"size:255;unique;not null" json:"nameEn"`
	NameNP         string `gorm:"size:255;not null" json:"nameNp"`
	Slug           string `gorm:"size:255;uniqueIndex" json:"slug"`
	DescriptionEN  string `gorm:"type:text" json:"descriptionEn,omitempty"`
	DescriptionNP  string `gorm:"type:text" json:"descriptionNp,omitempty"`
	HasSubBranches bool   `gorm:"default:false" json:"hasSubBranches"`
	DisplayOrder   int    `gorm:"default:0" json:"displayOrder"`
	IsActive       bool   `gorm:"default:true" json:"isActive"`
}

func (Branch) TableName() string {
	return "branches"
}

func (b *Branch) BeforeCreate(tx *gorm.DB) error {
	if b.Slug == "" {
		b.Slug = Slugify(b.NameEN)
	}
	return nil
}

// swagger:model SubBranch
type SubBranch struct {
	BaseModel
	BranchID      uint   `gorm:"index;not null;uniqueIndex:idx_branch_slug" json:"branchId"`
	NameEN        string `gorm:"size:255;not null" json:"nameEn"`
	NameNP        string `gorm:"size:255;not null" json:"nameNp"`
	Slug          string `gorm:"size:255;uniqueIndex:idx_branch_slug" json:"slug"`
	DescriptionEN string `gorm:"type:text" json:"descriptionEn,omitempty"`
	DescriptionNP string `gorm:"type:text" json:"descriptionNp,omitempty"`
	DisplayOrder  int    `gorm:"default:0" json:"displayOrder"`
	IsActive      bool   `gorm:"default:true" json:"isActive"`
}

func (SubBranch) TableName() string {
	return "sub_branches"
}

func (sb *SubBranch) BeforeCreate(tx *gorm.DB) error {
	if sb.Slug == "" {
		sb.Slug = Slugify(sb.NameEN)
	}
	return nil
}

type CategoryScope string

const (
	ScopeUniversal CategoryScope = "UNIVERSAL"
	ScopeBranch    CategoryScope = "BRANCH"
	ScopeSubBranch CategoryScope = "SUBBRANCH"
)

type CategoryType string

const (
	CategoryGeneral CategoryType = "GENERAL"
	CategorySpecial CategoryType = "SPECIAL"
)

// Category groups questions. Its scope decides which target references are
// required: UNIVERSAL has none, BRANCH needs a branch, SUBBRANCH needs both.
// swagger:model Category
type Category struct {
	BaseModel
	NameEN            string        `gorm:"size:255;not null" json:"nameEn"`
	NameNP            string        `gorm:"size:255;not null" json:"nameNp"`
	Slug              string        `gorm:"size:255;uniqueIndex" json:"slug"`
	DescriptionEN     string        `gorm:"type:text" json:"descriptionEn,omitempty"`
	DescriptionNP     string        `gorm:"type:text" json:"descriptionNp,omitempty"`
	ScopeType         CategoryScope `gorm:"size:20;not null" json:"scopeType"`
	TargetBranchID    *uint         `gorm:"index" json:"targetBranchId,omitempty"`
	TargetSubBranchID *uint         `gorm:"index" json:"targetSubBranchId,omitempty"`
	CategoryType      CategoryType  `gorm:"size:20;default:'GENERAL'" json:"categoryType"`
	IsActive          bool          `gorm:"default:true" json:"isActive"`
}

func (Category) TableName() string {
	return "categories"
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.Slug == "" {
		c.Slug = Slugify(c.NameEN)
	}
	return nil
}
