package seeders

import (
	"encoding/json"
	"log"

	"github.com/radmastery/radprep_api/model"
	"gorm.io/gorm"
)

// CaseSeeder handles seeding radiology teaching cases
type CaseSeeder struct {
	db *gorm.DB
}

func NewCaseSeeder(db *gorm.DB) *CaseSeeder {
	return &CaseSeeder{db: db}
}

// SeedCases seeds the database with a starter case library
func (s *CaseSeeder) SeedCases() error {
	cases := s.getCases()

	for _, c := range cases {
		var existing model.Case
		if err := s.db.Where("id = ?", c.ID).First(&existing).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				if err := s.db.Create(&c).Error; err != nil {
					log.Printf("Error creating case %s: %v", c.Title, err)
					return err
				}
				log.Printf("Created case: %s", c.Title)
			} else {
				log.Printf("Error checking case %s: %v", c.Title, err)
				return err
			}
		} else {
			log.Printf("Case %s already exists, skipping", c.Title)
		}
	}

	return nil
}

func mustOptions(options ...string) json.RawMessage {
	raw, err := json.Marshal(options)
	if err != nil {
		panic(err)
	}
	return raw
}

func (s *CaseSeeder) getCases() []model.Case {
	return []model.Case{
		{
			ID:         "case-chest-001",
			Title:      "Right lower lobe opacity in a febrile adult",
			Specialty:  "Chest",
			Modality:   "XR",
			BodyPart:   "Chest",
			Difficulty: 1,
			Diagnosis:  "Lobar pneumonia",
			Question:   "A 42-year-old presents with fever and productive cough. The frontal radiograph shows a right lower lobe consolidation with air bronchograms. What is the most likely diagnosis?",
			Options:    mustOptions("Lobar pneumonia", "Pulmonary infarct", "Bronchioloalveolar carcinoma", "Atelectasis"),
			CorrectIndex: 0,
			Explanation:  "Air bronchograms within a lobar consolidation in a febrile patient are typical of lobar pneumonia.",
			IsActive:     true,
		},
		{
			ID:         "case-chest-002",
			Title:      "Deep sulcus sign on supine radiograph",
			Specialty:  "Chest",
			Modality:   "XR",
			BodyPart:   "Chest",
			Difficulty: 3,
			Diagnosis:  "Pneumothorax",
			Question:   "A supine trauma radiograph shows an abnormally deep, lucent left costophrenic sulcus. What does this indicate?",
			Options:    mustOptions("Pneumothorax", "Pneumomediastinum", "Pleural effusion", "Diaphragmatic rupture"),
			CorrectIndex: 0,
			Explanation:  "The deep sulcus sign reflects anteromedial air collection of a pneumothorax on supine imaging.",
			IsActive:     true,
		},
		{
			ID:         "case-chest-003",
			Title:      "Upper lobe cavitary lesion in a returning traveler",
			Specialty:  "Chest",
			Modality:   "CT",
			BodyPart:   "Chest",
			Difficulty: 3,
			Diagnosis:  "Post-primary tuberculosis",
			IsActive:   true,
		},
		{
			ID:         "case-neuro-001",
			Title:      "Hyperdense MCA in acute hemiparesis",
			Specialty:  "Neuroradiology",
			Modality:   "CT",
			BodyPart:   "Head",
			Difficulty: 2,
			Diagnosis:  "Acute middle cerebral artery thrombosis",
			Question:   "A 68-year-old with sudden left hemiparesis. Non-contrast CT shows a hyperdense right MCA. What is the most likely diagnosis?",
			Options:    mustOptions("Acute middle cerebral artery thrombosis", "Calcified atherosclerosis", "Subarachnoid hemorrhage", "Cavernous malformation"),
			CorrectIndex: 0,
			Explanation:  "A hyperdense MCA sign with matching acute deficit indicates intraluminal thrombus.",
			IsActive:     true,
		},
		{
			ID:         "case-neuro-002",
			Title:      "Restricted diffusion in the splenium",
			Specialty:  "Neuroradiology",
			Modality:   "MR",
			BodyPart:   "Head",
			Difficulty: 4,
			Diagnosis:  "Cytotoxic lesion of the corpus callosum",
			IsActive:   true,
		},
		{
			ID:         "case-neuro-003",
			Title:      "Extra-axial collection crossing sutures",
			Specialty:  "Neuroradiology",
			Modality:   "CT",
			BodyPart:   "Head",
			Difficulty: 2,
			Diagnosis:  "Subdural hematoma",
			IsActive:   true,
		},
		{
			ID:         "case-msk-001",
			Title:      "Fall on outstretched hand with snuffbox tenderness",
			Specialty:  "MSK",
			Modality:   "XR",
			BodyPart:   "Wrist",
			Difficulty: 1,
			Diagnosis:  "Scaphoid fracture",
			Question:   "A young adult falls on an outstretched hand and has anatomic snuffbox tenderness. Which fracture must be excluded?",
			Options:    mustOptions("Scaphoid fracture", "Triquetral fracture", "Distal radius fracture", "Hamate hook fracture"),
			CorrectIndex: 0,
			Explanation:  "Snuffbox tenderness after a FOOSH injury is a scaphoid fracture until proven otherwise, given the risk of avascular necrosis.",
			IsActive:     true,
		},
		{
			ID:         "case-msk-002",
			Title:      "Bone-forming lesion with sunburst periosteal reaction",
			Specialty:  "MSK",
			Modality:   "XR",
			BodyPart:   "Knee",
			Difficulty: 3,
			Diagnosis:  "Osteosarcoma",
			IsActive:   true,
		},
		{
			ID:         "case-msk-003",
			Title:      "Sacroiliitis in a young man with back stiffness",
			Specialty:  "MSK",
			Modality:   "MR",
			BodyPart:   "Pelvis",
			Difficulty: 4,
			Diagnosis:  "Ankylosing spondylitis",
			IsActive:   true,
		},
		{
			ID:         "case-abd-001",
			Title:      "RLQ pain with a dilated blind-ending tubular structure",
			Specialty:  "Abdominal",
			Modality:   "CT",
			BodyPart:   "Abdomen",
			Difficulty: 1,
			Diagnosis:  "Acute appendicitis",
			Question:   "CT in a patient with right lower quadrant pain shows a dilated, blind-ending tubular structure with wall enhancement and fat stranding. What is the diagnosis?",
			Options:    mustOptions("Acute appendicitis", "Cecal diverticulitis", "Mesenteric adenitis", "Crohn terminal ileitis"),
			CorrectIndex: 0,
			Explanation:  "A dilated enhancing appendix with periappendiceal stranding is diagnostic of acute appendicitis.",
			IsActive:     true,
		},
		{
			ID:         "case-abd-002",
			Title:      "Whirl sign in an elderly patient with distension",
			Specialty:  "Abdominal",
			Modality:   "CT",
			BodyPart:   "Abdomen",
			Difficulty: 3,
			Diagnosis:  "Sigmoid volvulus",
			IsActive:   true,
		},
		{
			ID:         "case-abd-003",
			Title:      "Arterially enhancing liver lesion with washout",
			Specialty:  "Abdominal",
			Modality:   "MR",
			BodyPart:   "Abdomen",
			Difficulty: 4,
			Diagnosis:  "Hepatocellular carcinoma",
			IsActive:   true,
		},
		{
			ID:         "case-peds-001",
			Title:      "Target sign on pediatric abdominal ultrasound",
			Specialty:  "Pediatric",
			Modality:   "US",
			BodyPart:   "Abdomen",
			Difficulty: 2,
			Diagnosis:  "Ileocolic intussusception",
			Question:   "A 2-year-old with colicky pain. Ultrasound shows a 4 cm target-like mass in the right abdomen. What is the most likely diagnosis?",
			Options:    mustOptions("Ileocolic intussusception", "Pyloric stenosis", "Appendiceal abscess", "Mesenteric cyst"),
			CorrectIndex: 0,
			Explanation:  "The target or doughnut sign in a toddler is classic for ileocolic intussusception.",
			IsActive:     true,
		},
		{
			ID:         "case-peds-002",
			Title:      "Double bubble on neonatal radiograph",
			Specialty:  "Pediatric",
			Modality:   "XR",
			BodyPart:   "Abdomen",
			Difficulty: 2,
			Diagnosis:  "Duodenal atresia",
			IsActive:   true,
		},
		{
			ID:         "case-us-001",
			Title:      "Gallbladder wall thickening with sonographic Murphy sign",
			Specialty:  "Abdominal",
			Modality:   "US",
			BodyPart:   "Abdomen",
			Difficulty: 1,
			Diagnosis:  "Acute cholecystitis",
			IsActive:   true,
		},
		{
			ID:         "case-br-001",
			Title:      "Spiculated mass with pleomorphic calcifications",
			Specialty:  "Breast",
			Modality:   "MG",
			BodyPart:   "Breast",
			Difficulty: 3,
			Diagnosis:  "Invasive ductal carcinoma",
			IsActive:   true,
		},
		{
			ID:         "case-br-002",
			Title:      "Circumscribed oval mass in a young patient",
			Specialty:  "Breast",
			Modality:   "US",
			BodyPart:   "Breast",
			Difficulty: 2,
			Diagnosis:  "Fibroadenoma",
			IsActive:   true,
		},
		{
			ID:         "case-nm-001",
			Title:      "Matched ventilation-perfusion defects",
			Specialty:  "Nuclear",
			Modality:   "NM",
			BodyPart:   "Chest",
			Difficulty: 5,
			Diagnosis:  "Chronic obstructive pulmonary disease",
			IsActive:   true,
		},
		{
			ID:         "case-ir-001",
			Title:      "Active contrast extravasation after pelvic trauma",
			Specialty:  "Interventional",
			Modality:   "CT",
			BodyPart:   "Pelvis",
			Difficulty: 5,
			Diagnosis:  "Active arterial hemorrhage",
			IsActive:   true,
		},
		{
			ID:         "case-gu-001",
			Title:      "Hydronephrosis with a hyperdense ureteric focus",
			Specialty:  "Genitourinary",
			Modality:   "CT",
			BodyPart:   "Abdomen",
			Difficulty: 1,
			Diagnosis:  "Obstructing ureteric calculus",
			IsActive:   true,
		},
	}
}
