// Package workflow drives the guided consultation flow: a session walks a
// user from role selection through the consultation to document delivery,
// one legal step at a time.
package workflow

// Step is a position in the guided flow.
type Step int

const (
	StepUserSelection Step = iota
	StepAdminDashboard
	StepDoctorAgenda
	StepPatientSelection
	StepPatientInfo
	StepVideoConsultation
	StepMedicalNotes
	StepDocuments
	StepSendDocuments
)

var stepNames = map[Step]string{
	StepUserSelection:     "USER_SELECTION",
	StepAdminDashboard:    "ADMIN_DASHBOARD",
	StepDoctorAgenda:      "DOCTOR_AGENDA",
	StepPatientSelection:  "PATIENT_SELECTION",
	StepPatientInfo:       "PATIENT_INFO",
	StepVideoConsultation: "VIDEO_CONSULTATION",
	StepMedicalNotes:      "MEDICAL_NOTES",
	StepDocuments:         "DOCUMENTS",
	StepSendDocuments:     "SEND_DOCUMENTS",
}

func (s Step) String() string {
	if name, ok := stepNames[s]; ok {
		return name
	}
	return "UNKNOWN"
}

// MarshalJSON renders steps by name so clients never depend on ordinals.
func (s Step) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// Events accepted by the flow.
const (
	EventSelectRole        = "select_role"
	EventSelectDoctor      = "select_doctor"
	EventSelectPatient     = "select_patient"
	EventSelectAppointment = "select_appointment"
	EventStartConsultation = "start_consultation"
	EventEndCall           = "end_call"
	EventSaveNotes         = "save_notes"
	EventDocumentsReady    = "documents_ready"
	EventSendDocuments     = "send_documents"
	EventBack              = "back"
	EventReset             = "reset"
)

// eventSteps lists the step each event is legal from. Reset and back are
// legal everywhere (except back at the start) and handled separately.
var eventSteps = map[string]map[Step]bool{
	EventSelectRole:        {StepUserSelection: true},
	EventSelectDoctor:      {StepPatientSelection: true},
	EventSelectPatient:     {StepPatientSelection: true},
	EventSelectAppointment: {StepDoctorAgenda: true, StepPatientInfo: true},
	EventStartConsultation: {StepPatientInfo: true},
	EventEndCall:           {StepVideoConsultation: true},
	EventSaveNotes:         {StepMedicalNotes: true},
	EventDocumentsReady:    {StepDocuments: true},
	EventSendDocuments:     {StepSendDocuments: true},
}

// prevStep is the step back returns to. PATIENT_INFO is handled in the
// service because its predecessor depends on the session role.
var prevStep = map[Step]Step{
	StepAdminDashboard:    StepUserSelection,
	StepDoctorAgenda:      StepUserSelection,
	StepPatientSelection:  StepUserSelection,
	StepVideoConsultation: StepPatientInfo,
	StepMedicalNotes:      StepVideoConsultation,
	StepDocuments:         StepMedicalNotes,
	StepSendDocuments:     StepDocuments,
}
