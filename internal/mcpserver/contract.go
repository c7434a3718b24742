package mcpserver

// BoardRulesContract describes how the board behaves so that LLM consumers
// can predict the outcome of add_card and move_card calls.
const BoardRulesContract = `# Kanboard Board Rules

The board has exactly three columns, always shown in this order:

| id           | title       |
|--------------|-------------|
| ` + "`todo`" + `       | To Do       |
| ` + "`inprogress`" + ` | In Progress |
| ` + "`done`" + `       | Done        |

## Adding cards

1. New cards always go to the **front** of ` + "`todo`" + `.
2. Title and description are trimmed. An empty title adds nothing and shows
   the notice "Please enter a title" for 2 seconds.
3. An empty description is stored as "No description".
4. On success the notice ` + "`Task \"<title>\" added`" + ` is shown for 3 seconds.
5. The server assigns the card id. Ids are unique across the board.

## Moving cards

1. A moved card goes to the **front** of the destination column.
2. A move is silently ignored when:
   - the source and destination columns are the same,
   - either column id is not one of the three above,
   - the card is not currently in the source column.
3. Ignored moves leave the board unchanged. move_card answers
   ` + "`" + ignoredPrefix + " ...`" + ` for an ignored move and ` + "`" + movedPrefix + " ...`" + ` for a
   successful one.
   Always pass the column the card is in *now*; call list_cards or get_board
   first if unsure.

## Notices

Only one notice is visible at a time. A newer notice replaces the current
one and restarts the timer; an expired timer never hides a newer notice.
`
