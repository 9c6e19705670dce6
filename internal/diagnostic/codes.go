package diagnostic

// Diagnostic codes emitted by the compiler.
const (
	CodeDocumentLoad       = "document_load"
	CodeMissingSection     = "missing_section"
	CodeMissingDefKind     = "missing_def_kind"
	CodeUnknownDefKind     = "unknown_def_kind"
	CodeInvalidName        = "invalid_name"
	CodeReservedName       = "reserved_name"
	CodeDuplicateDef       = "duplicate_definition"
	CodeOverriddenDef      = "overridden_definition"
	CodeInvalidExpr        = "invalid_type_expression"
	CodeUnknownKind        = "unknown_kind"
	CodeInvalidArgument    = "invalid_argument"
	CodeUnknownParam       = "unknown_parameter"
	CodeUnknownOptional    = "unknown_optional_field"
	CodeUnknownDomain      = "unknown_class_domain"
	CodeDuplicateCategory  = "duplicate_category"
	CodeTrimmedCategory    = "trimmed_category_collision"
	CodeInvalidCategory    = "invalid_category"
	CodeInvalidSkeleton    = "invalid_skeleton"
	CodeDefinitionCycle    = "definition_cycle"
	CodeUnknownStruct      = "unknown_struct"
	CodeParamAmbiguous     = "ambiguous_parameter"
	CodeParamUnresolved    = "unresolved_parameter"
	CodeParamNotDomain     = "parameter_not_class_domain"
	CodeReplacedDefinition = "replaced_definition"
)
