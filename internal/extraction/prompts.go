package extraction

// The two prompts mirror the two-segment structure of the transcripts:
// the cast is introduced in the opening minutes, the tasting order and
// placements are announced near the end. Both prompts demand a bare JSON
// object so extractJSON has a stable target even without JSON mode.

const castPromptTemplate = `You are given the opening segment of a German cooking competition transcript.
The episode has {{.ExpectedCandidates}} candidates. Extract every candidate
introduced, plus the juror and the moderator if they are named.

For each candidate capture:
- name: full name as spoken
- gender: "f" or "m", empty if not inferable from the transcript
- location: home town or region, empty if not mentioned
- profession: stated occupation, empty if not mentioned
- dish: the dish they announce they will cook, empty if not mentioned

Respond with only a JSON object in this exact shape:
{"candidates": [{"name": "", "gender": "", "location": "", "profession": "", "dish": ""}], "juror": "", "moderator": ""}

Transcript segment:
{{.Transcript}}`

const outcomePromptTemplate = `You are given the closing segment of a German cooking competition transcript.
The episode has {{.ExpectedCandidates}} candidates{{if .Names}} named: {{.Names}}{{end}}.
Extract the order in which the juror tasted the dishes and the final placements.

Rules:
- tasting_order lists candidate names in tasting order, first tasted first.
- ranking assigns each candidate a rank: 1 is the day's winner, the highest
  rank is the eliminated candidate.
- Use the names exactly as they appear in the transcript.
- Omit a candidate from ranking only if the transcript truly never places them.

Respond with only a JSON object in this exact shape:
{"tasting_order": [""], "ranking": [{"name": "", "rank": 1}]}

Transcript segment:
{{.Transcript}}`
