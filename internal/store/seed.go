package store

import (
	"time"

	"github.com/noah-isme/tutor-verify-api/internal/models"
)

// DefaultSnapshot generates the default dataset the service falls back to when
// no persisted snapshot exists or the stored blob is corrupt.
func DefaultSnapshot(now time.Time) *models.Snapshot {
	becameTutor2 := now
	becameTutor3 := now
	staffID := "staff-1"

	return &models.Snapshot{
		Tutors: []models.Tutor{
			{
				UserID:             "tutor-1",
				Name:               "Nguyễn Văn A",
				Email:              "nguyenvana@example.com",
				VerificationStatus: models.VerificationNotStarted,
				LastStatusUpdateAt: now,
				Skills:             []string{"Toán", "Lý", "Hóa"},
				Languages:          []string{"Tiếng Việt", "Tiếng Anh"},
			},
			{
				UserID:             "tutor-2",
				Name:               "Trần Thị B",
				Email:              "tranthib@example.com",
				VerificationStatus: models.VerificationVerifiedUpload,
				LastStatusUpdateAt: now,
				BecameTutorAt:      &becameTutor2,
				Skills:             []string{"Ngữ văn", "Tiếng Anh", "Lịch sử"},
				Languages:          []string{"Tiếng Việt", "Tiếng Anh", "Tiếng Pháp"},
			},
			{
				UserID:             "tutor-3",
				Name:               "Lê Văn C",
				Email:              "levanc@example.com",
				VerificationStatus: models.VerificationVerifiedHardcopy,
				LastStatusUpdateAt: now,
				BecameTutorAt:      &becameTutor3,
				Skills:             []string{"Tin học", "Lập trình", "Toán"},
				Languages:          []string{"Tiếng Việt", "Tiếng Anh"},
			},
		},
		Applications: []models.TutorApplication{
			{
				ID:          "app-1",
				TutorID:     "tutor-1",
				SubmittedAt: now,
				Status:      models.ApplicationStatusPending,
			},
			{
				ID:            "app-2",
				TutorID:       "tutor-2",
				SubmittedAt:   now,
				Status:        models.ApplicationStatusApprovedUpload,
				InternalNotes: "Hồ sơ đầy đủ, đã duyệt qua upload",
			},
			{
				ID:            "app-3",
				TutorID:       "tutor-3",
				SubmittedAt:   now,
				Status:        models.ApplicationStatusApprovedHardcopy,
				InternalNotes: "Đã xác minh qua bản cứng",
			},
		},
		Documents: []models.Document{
			{
				ID:                 "doc-1",
				ApplicationID:      "app-1",
				Description:        "Bằng cấp và chứng chỉ",
				IsVisibleToLearner: true,
				DocumentFileUploads: []models.DocumentFileUpload{
					{ID: "file-1", FileName: "bang_dai_hoc.pdf", FileURL: "/placeholder.svg", UploadedAt: now},
					{ID: "file-2", FileName: "chung_chi_tieng_anh.pdf", FileURL: "/placeholder.svg", UploadedAt: now},
				},
			},
			{
				ID:            "doc-2",
				ApplicationID: "app-2",
				Description:   "CV và giấy tờ hỗ trợ",
				DocumentFileUploads: []models.DocumentFileUpload{
					{ID: "file-3", FileName: "cv_gia_su.pdf", FileURL: "/placeholder.svg", UploadedAt: now},
				},
			},
			{
				ID:                 "doc-3",
				ApplicationID:      "app-3",
				Description:        "Bằng cấp và chứng chỉ",
				IsVisibleToLearner: true,
				DocumentFileUploads: []models.DocumentFileUpload{
					{ID: "file-4", FileName: "bang_thac_si.pdf", FileURL: "/placeholder.svg", UploadedAt: now},
				},
			},
			{
				ID:            "doc-4",
				ApplicationID: "app-3",
				StaffID:       &staffID,
				Description:   "Bản cứng đã xác minh",
				DocumentFileUploads: []models.DocumentFileUpload{
					{ID: "file-5", FileName: "xac_minh_ban_cung.pdf", FileURL: "/placeholder.svg", UploadedAt: now},
				},
			},
		},
		HardcopyRequests: []models.HardcopyRequest{
			{
				ID:            "hardcopy-1",
				ApplicationID: "app-2",
				RequestedAt:   now,
				Status:        models.HardcopyStatusPending,
			},
		},
	}
}
