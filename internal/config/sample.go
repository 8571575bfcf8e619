package config

// SampleConfig returns a fully commented configuration file.
func SampleConfig() string {
	return `# MeetSum configuration
# Search order (highest priority first):
#   ./.meetsum.yaml
#   ~/.config/meetsum/config.yaml
#   /etc/meetsum/config.yaml
# Every key can be overridden with MEETSUM_<SECTION>_<KEY>, for example
# MEETSUM_BACKEND_BASE_URL=http://analysis:8000
version: "1.0"

backend:
  # Root URL of the meeting-minutes backend
  base_url: "http://localhost:8000"
  # Upload endpoint, relative to base_url
  process_path: "/process"
  # Liveness endpoint used by 'meetsum health'
  health_path: "/healthz"
  # Whole-request timeout; analysis of long meetings can take minutes
  timeout: 5m
  # Largest transcript accepted, in megabytes
  max_upload_mb: 10
  # Bearer token. Leave empty to use 'meetsum auth login' instead.
  api_key: ""

presenter:
  # Tab shown after every new analysis
  default_tab: "executive_summary"
  # Tab bar order; sections not listed here are appended alphabetically
  tabs:
    - executive_summary
    - action_items
    - decisions
    - risks
    - speaker_spotlight
    - metadata
  # Record keys listed before the rest, which follow alphabetically
  field_order: [description, decision, risk, speaker, owner, due_date, priority, status, rationale, impact, mitigation]

output:
  # text | json | markdown | html
  default_format: "text"
  # auto | always | never
  color_mode: "auto"
  # Directory for downloaded results
  download_dir: "."
  # default | high-contrast | minimal
  theme: "default"
  # Draw a progress bar while uploading in --no-tui mode
  show_progress: true

server:
  # Address for 'meetsum serve'
  listen_addr: "127.0.0.1:8080"
  # Idle browser sessions are dropped after this long
  session_ttl: 30m
  # Emit JSON request logs
  log_json: false
`
}

// MinimalSampleConfig returns the smallest useful configuration file.
func MinimalSampleConfig() string {
	return `version: "1.0"
backend:
  base_url: "http://localhost:8000"
output:
  default_format: "text"
`
}
