package sqlinline

const QCreateHistoryTable = `--sql 8211e4eb-6517-4923-a050-7944feae3ee4
create table if not exists generation_history (
    id integer primary key autoincrement,
    image_url text not null,
    video_url text not null,
    prompt text not null,
    created_at integer not null
);
`

const QInsertHistoryEntry = `--sql ad53ffe7-eea5-46ad-b29a-f502ab276727
insert into generation_history (image_url, video_url, prompt, created_at)
values (?, ?, ?, ?);
`

const QSelectHistory = `--sql 18dcd189-74f5-4bf6-b116-cae3fd9ecc62
select image_url, video_url, prompt, created_at
from generation_history
order by id asc;
`
