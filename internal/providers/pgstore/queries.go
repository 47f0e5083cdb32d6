package pgstore

// The primary path reads the denormalized board views maintained by the
// score-entry backend. The fallback path assembles the same record set from
// the base tables when the views are unavailable (older deployments, view
// migration in flight). Nullable columns are coalesced so scanning stays
// pointer-free.
const (
	queryResolveShow = `
SELECT id FROM shows WHERE license_key = $1`

	queryClassBoard = `
SELECT class_id,
       COALESCE(element_type, ''),
       COALESCE(level_name, ''),
       COALESCE(section, ''),
       COALESCE(judge_name, ''),
       COALESCE(trial_date::text, ''),
       COALESCE(trial_number, 0),
       COALESCE(run_order, 0),
       COALESCE(start_time::text, ''),
       COALESCE(total_count, 0),
       COALESCE(completed_count, 0),
       COALESCE(pending_count, -1),
       COALESCE(status, '')
FROM class_board_view
WHERE show_id = $1`

	queryEntryBoard = `
SELECT entry_id,
       COALESCE(armband, ''),
       COALESCE(call_name, ''),
       COALESCE(breed_name, ''),
       COALESCE(handler_name, ''),
       COALESCE(handler_location, ''),
       COALESCE(element_type, ''),
       COALESCE(level_name, ''),
       COALESCE(section, ''),
       COALESCE(trial_date::text, ''),
       COALESCE(trial_number, 0),
       COALESCE(run_order, 0),
       COALESCE(status, ''),
       COALESCE(result_text, ''),
       COALESCE(search_time, ''),
       COALESCE(placement, 0),
       COALESCE(checkin_status, '')
FROM entry_board_view
WHERE show_id = $1`

	queryTrials = `
SELECT id, COALESCE(trial_date::text, ''), COALESCE(trial_number, 0)
FROM trials
WHERE show_id = $1
ORDER BY trial_date, trial_number`

	queryClasses = `
SELECT id,
       trial_id,
       COALESCE(element, ''),
       COALESCE(level, ''),
       COALESCE(section, ''),
       COALESCE(judge_name, ''),
       COALESCE(run_order, 0),
       COALESCE(start_time::text, ''),
       COALESCE(entry_total, 0),
       COALESCE(entry_completed, 0),
       COALESCE(in_ring, false)
FROM classes
WHERE trial_id = ANY($1)`

	queryEntries = `
SELECT e.id,
       e.trial_id,
       COALESCE(e.armband, ''),
       COALESCE(e.call_name, ''),
       COALESCE(e.breed, ''),
       COALESCE(e.handler_name, ''),
       COALESCE(e.handler_city, ''),
       COALESCE(e.element, ''),
       COALESCE(e.level, ''),
       COALESCE(e.section, ''),
       COALESCE(e.run_order, 0),
       COALESCE(e.checkin_status, ''),
       COALESCE(e.in_ring, false),
       COALESCE(r.result_text, ''),
       COALESCE(r.search_time, ''),
       COALESCE(r.placement, 0),
       COALESCE(r.is_scored, false)
FROM entries e
LEFT JOIN results r ON r.entry_id = e.id
WHERE e.trial_id = ANY($1)`

	queryClassIDs = `
SELECT c.id FROM classes c JOIN trials t ON t.id = c.trial_id WHERE t.show_id = $1`

	queryEntryIDs = `
SELECT e.id FROM entries e JOIN trials t ON t.id = e.trial_id WHERE t.show_id = $1`
)
