package schema

// Static form tables. Item text is content; the structure (types, paths, conditions) is what
// progress and navigation read.

var fidelityScale = opts(
	"0", "Not at all",
	"1", "Somewhat",
	"2", "Mostly",
	"3", "Fully",
)

var programScale = opts(
	"1", "Not in place",
	"2", "Beginning",
	"3", "Developing",
	"4", "Established",
	"5", "Exemplary",
)

var traumaTypes = opts(
	"none", "No known trauma",
	"abuse", "Physical or sexual abuse",
	"neglect", "Neglect",
	"domesticViolence", "Domestic violence",
	"community", "Community violence",
	"loss", "Traumatic loss",
	"other", "Other",
)

var treatmentPhases = opts(
	"foundational", "Foundational phase",
	"core", "Core intervention phase",
	"termination", "Recapitulation and termination",
)

func foundationalForm() *Form {
	return newForm(VariantFoundational, "CPP Foundational Phase Fidelity",
		section("caseInfo", "Case Information",
			text("clinicianName", "Clinician name"),
			text("clientInitials", "Client initials"),
			text("reportDate", "Date", today()),
			selectOne("phase", "Treatment phase", treatmentPhases),
			radio("traumaType", "Primary trauma history", traumaTypes),
		),
		section("reflectivePractice", "Reflective Practice Fidelity",
			multi("awareness", "Clinician awareness", subs(
				"ownEmotions", "Aware of own emotional reactions",
				"familyReactions", "Considers reactions to family members",
				"culturalBiases", "Reflects on cultural biases",
				"selfCare", "Attends to self-care",
			)),
			rating("supervisionUse", "Uses reflective supervision", fidelityScale),
		),
		section("emotionalProcess", "Emotional Process Fidelity",
			rating("parentSafety", "Fosters safety for the caregiver", fidelityScale),
			rating("tolerateAffect", "Tolerates strong affect", fidelityScale),
			rating("multiplePerspectives", "Holds multiple perspectives", fidelityScale),
		),
		section("dyadicRelational", "Dyadic-Relational Fidelity",
			rating("supportRelationship", "Supports the caregiver-child relationship", fidelityScale),
			rating("translateMeanings", "Translates the meaning of behavior", fidelityScale),
			rating("childVoice", "Gives voice to the child's experience", fidelityScale),
		),
		section("traumaFramework", "Trauma Framework Fidelity",
			checkbox("screened", "Trauma screening completed", unless("caseInfo.traumaType", "none")),
			checkbox("traumaFeedback", "Shared trauma framework with caregiver", unless("caseInfo.traumaType", "none")),
			rating("remindersIdentified", "Identifies trauma reminders", fidelityScale, unless("caseInfo.traumaType", "none")),
		),
		section("procedural", "Procedural Fidelity",
			checkbox("consentObtained", "Consent obtained", withNA()),
			checkbox("assessmentCompleted", "Assessment measures completed"),
			checkbox("feedbackSession", "Feedback session held", withNA()),
			checkbox("childFirstIntake", "Child First intake completed", childFirstOnly()),
		),
	)
}

func supervisionForm() *Form {
	return newForm(VariantSupervision, "Reflective Supervision Rating",
		section("supervisionInfo", "Supervision Information",
			text("supervisorName", "Supervisor name"),
			text("sessionDate", "Date", today()),
			selectOne("format", "Format", opts(
				"individual", "Individual",
				"group", "Group",
				"team", "Team (clinician and care coordinator)",
			)),
		),
		section("reflectiveSupervision", "Reflective Supervision",
			dual("exploresReactions", "Explores emotional reactions to the family", fidelityScale),
			dual("linksToCase", "Links reactions to case formulation", fidelityScale),
			dual("culturalHumility", "Considers culture and context", fidelityScale),
			dual("teamCollaboration", "Reflects on team collaboration", fidelityScale, childFirstOnly()),
		),
		section("caseDiscussion", "Case Discussion",
			multi("topicsCovered", "Topics covered", subs(
				"safety", "Safety",
				"traumaReminders", "Trauma reminders",
				"dyadicPlay", "Dyadic play",
				"caregiverHistory", "Caregiver history",
				"systems", "Systems involvement",
			)),
			text("plan", "Plan for next session"),
		),
	)
}

func careCoordinatorForm() *Form {
	return newForm(VariantCareCoordinator, "Care Coordinator Fidelity",
		section("ccInfo", "Care Coordination",
			text("coordinatorName", "Care coordinator name"),
			text("visitDate", "Date", today()),
		),
		section("familyNeeds", "Family Needs and Resources",
			multi("needsAssessed", "Needs assessed", subs(
				"housing", "Housing",
				"food", "Food security",
				"health", "Health insurance",
				"childcare", "Childcare",
				"legal", "Legal",
				"transportation", "Transportation",
			)),
			checkbox("referralsMade", "Referrals made", withNA()),
			checkbox("followUpCompleted", "Referral follow-up completed", withNA()),
		),
		section("teamwork", "Clinical Team",
			dual("jointVisits", "Joint home visits", fidelityScale),
			dual("sharedPlanning", "Shared family plan", fidelityScale),
			checkbox("ccNotes", "Care coordination notes current", careCoordinatorOnly()),
			checkbox("clinicalNotes", "Clinical notes current", clinicianOnly()),
		),
	)
}

func terminationForm() *Form {
	return newForm(VariantTermination, "Termination and Closing",
		section("terminationInfo", "Termination",
			radio("terminationType", "Type of termination", opts(
				"planned", "Planned",
				"unplanned", "Unplanned",
				"transfer", "Transfer of care",
			)),
			text("closingDate", "Closing date", today()),
		),
		section("plannedClosing", "Planned Closing",
			checkbox("closingDiscussed", "Ending discussed in advance", when("terminationInfo.terminationType", "planned")),
			checkbox("celebration", "Closing ritual or celebration", when("terminationInfo.terminationType", "planned")),
			rating("goalsMet", "Treatment goals met", fidelityScale, when("terminationInfo.terminationType", "planned")),
			multi("endingTasks", "Ending tasks", subs(
				"reviewedTreatment", "Reviewed the course of treatment",
				"storyBook", "Created a story book",
				"discussedLoss", "Discussed feelings about the ending",
				"followUpPlan", "Planned follow-up",
			), when("terminationInfo.terminationType", "planned")),
		),
		section("unplannedClosing", "Unplanned Closing",
			text("reasonForClosing", "Reason for closing", when("terminationInfo.terminationType", "unplanned")),
			checkbox("closingLetterSent", "Closing letter sent", when("terminationInfo.terminationType", "unplanned")),
		),
		section("summary", "Summary",
			text("clinicalSummary", "Clinical summary"),
			selectOne("recommendation", "Recommendation", withNAOption(opts(
				"noFurther", "No further services",
				"referral", "Referral to other services",
				"return", "Return if needed",
			))),
		),
	)
}

func programFidelityForm() *Form {
	return newForm(VariantProgramFidelity, "Program Fidelity Checklist",
		section("programInfo", "Program",
			text("agencyName", "Agency"),
			text("reviewDate", "Review date", today()),
		),
		section("training", "Training and Consultation",
			rating("learningCollaborative", "Staff completed the learning collaborative", programScale),
			rating("reflectiveConsultation", "Ongoing reflective consultation", programScale),
			rating("supervisorTraining", "Supervisors trained in the model", programScale),
		),
		section("services", "Service Delivery",
			rating("caseloads", "Caseloads support model delivery", programScale),
			rating("homeVisiting", "Home-based services available", programScale),
			rating("teamModel", "Clinician and care coordinator teams", programScale, childFirstOnly()),
		),
		section("documentation", "Documentation",
			checkbox("fidelityFormsCompleted", "Fidelity forms completed", withNA()),
			checkbox("outcomesTracked", "Outcome measures tracked", withNA()),
			checkbox("consentRecords", "Consent records on file"),
		),
	)
}

func coreInterventionForm() *Form {
	return newForm(VariantCoreIntervention, "CPP Core Intervention Fidelity",
		section("sessionInfo", "Session",
			text("sessionDate", "Session date", today()),
			selectOne("setting", "Setting", opts(
				"home", "Home",
				"clinic", "Clinic",
				"community", "Community",
				"other", "Other",
			)),
			text("settingOther", "Describe setting", when("sessionInfo.setting", "other")),
		),
		section("modalities", "Intervention Modalities",
			multi("used", "Modalities used", subs(
				"play", "Play, physical contact and language",
				"developmentalGuidance", "Unstructured developmental guidance",
				"protectiveBehavior", "Modeling protective behavior",
				"interpretation", "Insight-oriented interpretation",
				"emotionalSupport", "Emotional support and empathic communication",
				"crisisIntervention", "Crisis intervention",
				"concreteAssistance", "Concrete assistance with problems of living",
				"traumaNarrative", "Joint trauma narrative",
			)),
		),
		section("strands", "Fidelity Strands",
			rating("reflective", "Reflective practice", fidelityScale),
			rating("emotional", "Emotional process", fidelityScale),
			rating("dyadic", "Dyadic-relational", fidelityScale),
			rating("traumaFramework", "Trauma framework", fidelityScale),
		),
		section("risk", "Safety",
			radio("safetyConcern", "Safety concern this session", opts(
				"none", "None",
				"present", "Present",
			)),
			checkbox("safetyPlanUpdated", "Safety plan updated", unless("risk.safetyConcern", "none")),
			text("safetyNotes", "Safety notes", unless("risk.safetyConcern", "none")),
		),
	)
}

// legacyForm mirrors the original single-page checklist.
func legacyForm() *Form {
	return newForm(VariantLegacy, "CPP Fidelity Checklist",
		section("checklist", "Checklist",
			text("clinicianName", "Clinician name"),
			text("clientInitials", "Client initials"),
			text("date", "Date", today()),
			radio("traumaType", "Primary trauma history", traumaTypes),
			checkbox("traumaScreen", "Trauma screening completed", unless("checklist.traumaType", "none")),
			multi("strands", "Fidelity strands addressed", subs(
				"reflective", "Reflective practice",
				"emotional", "Emotional process",
				"dyadic", "Dyadic-relational",
				"trauma", "Trauma framework",
				"procedural", "Procedural",
				"content", "Content",
			)),
			rating("overall", "Overall fidelity", fidelityScale),
		),
		section("notes", "Notes",
			text("notes", "Session notes"),
		),
	)
}
